package staticmaps

import "warfront/internal/domain/game"

const TwinIslesID = "twin-isles"

var builtins = map[string]game.Map{
	TwinIslesID: twinIsles(),
}

// Two four-territory islands joined by a single strait between n4 and s1.
func twinIsles() game.Map {
	t := func(id, name, continent string, adj ...game.TerritoryID) game.TerritoryDef {
		return game.TerritoryDef{ID: game.TerritoryID(id), Name: name, Continent: continent, Adjacent: adj}
	}
	return game.Map{
		ID:   TwinIslesID,
		Name: "Twin Isles",
		Territories: []game.TerritoryDef{
			t("n1", "North Cape", "north", "n2", "n3"),
			t("n2", "Fjordland", "north", "n1", "n4"),
			t("n3", "Highmoor", "north", "n1", "n4"),
			t("n4", "Strait Keep", "north", "n2", "n3", "s1"),
			t("s1", "Harbor", "south", "n4", "s2", "s3"),
			t("s2", "Red Dunes", "south", "s1", "s4"),
			t("s3", "Salt Flats", "south", "s1", "s4"),
			t("s4", "Southmark", "south", "s2", "s3"),
		},
		Continents: []game.Continent{
			{ID: "north", Name: "Northern Isle", Bonus: 2},
			{ID: "south", Name: "Southern Isle", Bonus: 2},
		},
	}
}
