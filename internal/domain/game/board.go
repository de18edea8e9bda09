package game

type TerritoryDef struct {
	ID        TerritoryID   `json:"id"`
	Name      string        `json:"name"`
	Continent string        `json:"continent"`
	Adjacent  []TerritoryID `json:"adjacent"`
}

type Continent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Bonus int    `json:"bonus"`
}

type Map struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Territories []TerritoryDef `json:"territories"`
	Continents  []Continent    `json:"continents"`
}

func (m Map) Territory(id TerritoryID) (TerritoryDef, bool) {
	for _, t := range m.Territories {
		if t.ID == id {
			return t, true
		}
	}
	return TerritoryDef{}, false
}

func (m Map) Adjacent(a, b TerritoryID) bool {
	t, ok := m.Territory(a)
	if !ok {
		return false
	}
	for _, n := range t.Adjacent {
		if n == b {
			return true
		}
	}
	return false
}

// TerritoryIDs lists territory ids sorted ascending.
func (m Map) TerritoryIDs() []TerritoryID {
	out := make([]TerritoryID, 0, len(m.Territories))
	for _, t := range m.Territories {
		out = append(out, t.ID)
	}
	sortTerritoryIDs(out)
	return out
}

func (m Map) ContinentTerritories(continentID string) []TerritoryID {
	out := []TerritoryID{}
	for _, t := range m.Territories {
		if t.Continent == continentID {
			out = append(out, t.ID)
		}
	}
	sortTerritoryIDs(out)
	return out
}

// Connected reports whether to is reachable from from through territories
// accepted by pass.
func (m Map) Connected(from, to TerritoryID, pass func(TerritoryID) bool) bool {
	if from == to {
		return true
	}
	seen := map[TerritoryID]bool{from: true}
	queue := []TerritoryID{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		def, ok := m.Territory(cur)
		if !ok {
			continue
		}
		for _, n := range def.Adjacent {
			if seen[n] || !pass(n) {
				continue
			}
			if n == to {
				return true
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return false
}
