package game

import (
	"errors"
	"testing"
)

func threePlayerState() GameState {
	return GameState{
		Players: []Player{
			{ID: "p1", Status: PlayerAlive, TeamID: "a"},
			{ID: "p2", Status: PlayerDefeated, TeamID: "b"},
			{ID: "p3", Status: PlayerAlive, TeamID: "a"},
		},
		TurnOrder: []PlayerID{"p1", "p2", "p3"},
		Territories: map[TerritoryID]TerritoryState{
			"b": {Owner: "p1", Armies: 2},
			"a": {Owner: "p1", Armies: 1},
			"c": {Owner: "p3", Armies: 4},
		},
	}
}

func TestNextAlivePlayer_SkipsDefeatedAndReportsWrap(t *testing.T) {
	s := threePlayerState()

	next, wrapped := s.NextAlivePlayer("p1")
	if next != "p3" || wrapped {
		t.Fatalf("expected p3 without wrap, got %s wrapped=%v", next, wrapped)
	}
	next, wrapped = s.NextAlivePlayer("p3")
	if next != "p1" || !wrapped {
		t.Fatalf("expected p1 with wrap, got %s wrapped=%v", next, wrapped)
	}
}

func TestOutcome_TeamsDecideTogether(t *testing.T) {
	s := threePlayerState()
	if _, _, decided := s.Outcome(false); decided {
		t.Fatalf("two alive players without teams must not be decided")
	}
	winner, team, decided := s.Outcome(true)
	if !decided || winner != "p1" || team != "a" {
		t.Fatalf("expected team a to win via p1, got %s %s %v", winner, team, decided)
	}
}

func TestOwnedBy_IsSorted(t *testing.T) {
	got := threePlayerState().OwnedBy("p1")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected owned list: %v", got)
	}
}

func TestClone_IsDeep(t *testing.T) {
	s := threePlayerState()
	s.Hands = map[PlayerID][]Card{"p1": {{ID: "c1", Symbol: SymbolInfantry}}}
	s.PendingOccupy = &PendingOccupy{From: "a", To: "c", MinMove: 1, MaxMove: 1}

	c := s.Clone()
	c.Territories["a"] = TerritoryState{Owner: "p3", Armies: 9}
	c.Hands["p1"][0].ID = "changed"
	c.PendingOccupy.MinMove = 5
	c.Players[0].Status = PlayerDefeated

	if s.Territories["a"].Owner != "p1" || s.Hands["p1"][0].ID != "c1" || s.PendingOccupy.MinMove != 1 || !s.IsAlive("p1") {
		t.Fatalf("clone shares memory with original: %+v", s)
	}
}

func TestResolveRuleset_OverridesOnlySetFields(t *testing.T) {
	dice, cards := 2, false
	r := ResolveRuleset(DefaultRuleset(), RulesetOverrides{
		AttackerMaxDice: &dice,
		CardsEnabled:    &cards,
		TradeValues:     []int{5, 7},
	})
	if r.Combat.AttackerMaxDice != 2 || r.Combat.DefenderMaxDice != 2 {
		t.Fatalf("unexpected combat config: %+v", r.Combat)
	}
	if r.Cards.Enabled || len(r.Cards.TradeValues) != 2 {
		t.Fatalf("unexpected cards config: %+v", r.Cards)
	}
	if !r.Fortify.RequireConnected || r.Setup.StartingArmies != 20 {
		t.Fatalf("defaults lost: %+v", r)
	}

	r.Cards.TradeValues[0] = 99
	if DefaultRuleset().Cards.TradeValues[0] != 4 {
		t.Fatalf("defaults must not be shared")
	}
}

func TestTradeValue_ExtendsPastTable(t *testing.T) {
	c := DefaultRuleset().Cards
	cases := map[int]int{0: 4, 5: 15, 6: 20, 8: 30}
	for n, want := range cases {
		if got := c.TradeValue(n); got != want {
			t.Fatalf("TradeValue(%d)=%d want %d", n, got, want)
		}
	}
	if got := (CardsConfig{}).TradeValue(3); got != 0 {
		t.Fatalf("expected 0 with no table, got %d", got)
	}
}

func TestActionValidate(t *testing.T) {
	cases := []struct {
		name string
		a    Action
		ok   bool
	}{
		{"place", Action{Type: ActionPlace, Territory: "a", Armies: 1}, true},
		{"place zero", Action{Type: ActionPlace, Territory: "a"}, false},
		{"batch", Action{Type: ActionPlaceReinforcements, Placements: []Placement{{Territory: "a", Armies: 2}}}, true},
		{"empty batch", Action{Type: ActionPlaceReinforcements}, false},
		{"trade two", Action{Type: ActionTradeCards, CardIDs: []string{"x", "y"}}, false},
		{"attack", Action{Type: ActionAttack, From: "a", To: "c"}, true},
		{"fortify no armies", Action{Type: ActionFortify, From: "a", To: "b"}, false},
		{"end turn", Action{Type: ActionEndTurn}, true},
		{"unknown", Action{Type: "teleport"}, false},
	}
	for _, tc := range cases {
		err := tc.a.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidAction) {
			t.Fatalf("%s: expected ErrInvalidAction, got %v", tc.name, err)
		}
	}
}

func TestExpand_SplitsBatchIntoPlaces(t *testing.T) {
	a := Action{Type: ActionPlaceReinforcements, Placements: []Placement{{Territory: "a", Armies: 2}, {Territory: "b", Armies: 1}}}
	steps := a.Expand()
	if len(steps) != 2 || steps[1].Type != ActionPlace || steps[1].Territory != "b" || steps[1].Armies != 1 {
		t.Fatalf("unexpected expansion: %+v", steps)
	}
	if single := (Action{Type: ActionAttack}).Expand(); len(single) != 1 || single[0].Type != ActionAttack {
		t.Fatalf("primitive action should expand to itself: %+v", single)
	}
}

func TestMapConnected_RespectsPass(t *testing.T) {
	m := Map{Territories: []TerritoryDef{
		{ID: "a", Adjacent: []TerritoryID{"b"}},
		{ID: "b", Adjacent: []TerritoryID{"a", "c"}},
		{ID: "c", Adjacent: []TerritoryID{"b"}},
	}}
	if !m.Connected("a", "c", func(TerritoryID) bool { return true }) {
		t.Fatalf("expected a-c connected")
	}
	if m.Connected("a", "c", func(id TerritoryID) bool { return id != "b" }) {
		t.Fatalf("expected b to block the path")
	}
}
