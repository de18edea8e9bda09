package turnflow

import (
	"testing"
	"time"

	"warfront/internal/domain/game"
)

// countingEngine adds one army per place and rejects territory "bad".
type countingEngine struct{}

func (countingEngine) ApplyAction(state game.GameState, player game.PlayerID, a game.Action, _ game.Map, _ game.Ruleset) (game.GameState, []game.Event, error) {
	if a.Territory == "bad" {
		return state, nil, game.Reject("unknown_territory", "")
	}
	next := state.Clone()
	t := next.Territories[a.Territory]
	t.Armies += a.Armies
	next.Territories[a.Territory] = t
	return next, []game.Event{{Type: game.EventReinforcementsPlaced, PlayerID: player, Amount: a.Armies}}, nil
}

func (countingEngine) CalculateReinforcements(game.GameState, game.PlayerID, game.Map, game.TeamsConfig, []game.PlayerID) game.ReinforcementResult {
	return game.ReinforcementResult{Total: 3}
}

func baseState() game.GameState {
	return game.GameState{
		Players:      []game.Player{{ID: "p1", Status: game.PlayerAlive}, {ID: "p2", Status: game.PlayerAlive}},
		TurnOrder:    []game.PlayerID{"p1", "p2"},
		Territories:  map[game.TerritoryID]game.TerritoryState{"a": {Owner: "p1", Armies: 1}, "b": {Owner: "p2", Armies: 1}},
		Turn:         game.Turn{CurrentPlayerID: "p1", Phase: game.PhaseReinforcement, Round: 1},
		StateVersion: 4,
	}
}

func TestApply_BatchBumpsVersionPerStep(t *testing.T) {
	batch := game.Action{Type: game.ActionPlaceReinforcements, Placements: []game.Placement{
		{Territory: "a", Armies: 2}, {Territory: "a", Armies: 1},
	}}
	next, events, err := Apply(countingEngine{}, baseState(), "p1", batch, game.Map{}, game.DefaultRuleset())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if next.StateVersion != 6 || next.Territories["a"].Armies != 4 || len(events) != 2 {
		t.Fatalf("unexpected result: version=%d armies=%d events=%d", next.StateVersion, next.Territories["a"].Armies, len(events))
	}
}

func TestApply_BatchIsAllOrNothing(t *testing.T) {
	state := baseState()
	batch := game.Action{Type: game.ActionPlaceReinforcements, Placements: []game.Placement{
		{Territory: "a", Armies: 2}, {Territory: "bad", Armies: 1},
	}}
	next, events, err := Apply(countingEngine{}, state, "p1", batch, game.Map{}, game.DefaultRuleset())
	if err == nil {
		t.Fatalf("expected rejection")
	}
	if next.StateVersion != 4 || next.Territories["a"].Armies != 1 || events != nil {
		t.Fatalf("state leaked from rejected batch: %+v", next)
	}
}

func TestApply_ResignCountsOnce(t *testing.T) {
	next, events, err := Apply(countingEngine{}, baseState(), "p2", game.Action{Type: game.ActionResign}, game.Map{}, game.DefaultRuleset())
	if err != nil {
		t.Fatalf("resign: %v", err)
	}
	if next.StateVersion != 5 {
		t.Fatalf("expected version 5, got %d", next.StateVersion)
	}
	if _, ok := game.FindGameEnded(events); !ok {
		t.Fatalf("expected game ended event, got %+v", events)
	}
}

func TestSettle(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	prev := baseState()

	g := game.Game{TimingMode: game.TimingAsync1D, State: prev}
	if Settle(&g, prev, nil, now) || g.Timing != nil {
		t.Fatalf("same player must keep timing")
	}

	g.State.Turn.CurrentPlayerID = "p2"
	if !Settle(&g, prev, nil, now) {
		t.Fatalf("expected new turn")
	}
	if g.Timing == nil || !g.Timing.TurnDeadlineAt.Equal(now.Add(24*time.Hour)) {
		t.Fatalf("unexpected timing: %+v", g.Timing)
	}

	ended := []game.Event{{Type: game.EventGameEnded, Winner: "p2"}}
	if Settle(&g, prev, ended, now) {
		t.Fatalf("finished game must not start a turn")
	}
	if g.Status != game.StatusFinished || g.Timing != nil || g.WinnerPlayerID != "p2" {
		t.Fatalf("unexpected finished game: %+v", g)
	}
}

func TestStartTurn_RealtimeHasNoDeadline(t *testing.T) {
	if StartTurn(game.TimingRealtime, false, time.Now()) != nil {
		t.Fatalf("expected nil timing in realtime mode")
	}
}

func TestEntry_UsesLogLengthAsIndex(t *testing.T) {
	g := game.Game{ID: "g1", LogLength: 7}
	e := Entry(g, "p1", game.Action{Type: game.ActionEndTurn}, 3, 4, nil, time.Time{})
	if e.Index != 7 || e.GameID != "g1" || e.StateVersionAfter != 4 {
		t.Fatalf("unexpected entry: %+v", e)
	}
}
