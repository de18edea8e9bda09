package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flatCalc struct{}

func (flatCalc) CalculateReinforcements(_ GameState, _ PlayerID, _ Map, _ TeamsConfig, _ []PlayerID) ReinforcementResult {
	return ReinforcementResult{Total: 3}
}

func teamResignState() GameState {
	return GameState{
		Players: []Player{
			{ID: "p1", Status: PlayerAlive, TeamID: "A"},
			{ID: "p2", Status: PlayerAlive, TeamID: "B"},
			{ID: "p3", Status: PlayerAlive, TeamID: "A"},
		},
		TurnOrder: []PlayerID{"p1", "p2", "p3"},
		Territories: map[TerritoryID]TerritoryState{
			"a": {Owner: "p1", Armies: 4},
			"b": {Owner: "p2", Armies: 2},
			"c": {Owner: "p2", Armies: 5},
			"d": {Owner: "p3", Armies: 1},
		},
		Turn:           Turn{CurrentPlayerID: "p2", Phase: PhaseAttack, Round: 2},
		Reinforcements: Reinforcements{},
		Hands:          map[PlayerID][]Card{"p2": {{ID: "x", Symbol: SymbolInfantry}}},
	}
}

func TestResign_CurrentPlayerAdvancesTurn(t *testing.T) {
	s, events, err := Resign(teamResignState(), "p2", Map{}, DefaultRuleset(), flatCalc{})
	require.NoError(t, err)

	assert.False(t, s.IsAlive("p2"))
	assert.Equal(t, TerritoryState{Owner: NeutralPlayer, Armies: 5}, s.Territories["c"])
	assert.Equal(t, NeutralPlayer, s.Territories["b"].Owner)
	assert.Empty(t, s.Hands["p2"])
	assert.Len(t, s.Discard, 1)

	assert.Equal(t, PlayerID("p3"), s.Turn.CurrentPlayerID)
	assert.Equal(t, PhaseReinforcement, s.Turn.Phase)
	assert.Equal(t, 3, s.Reinforcements.Remaining)
	require.Len(t, events, 3)
	assert.Equal(t, EventPlayerResigned, events[0].Type)
	assert.Len(t, events[0].Changes, 2)
	assert.Equal(t, EventTurnEnded, events[1].Type)
}

func TestResign_OtherPlayerKeepsTurn(t *testing.T) {
	s, events, err := Resign(teamResignState(), "p3", Map{}, DefaultRuleset(), flatCalc{})
	require.NoError(t, err)
	assert.Equal(t, PlayerID("p2"), s.Turn.CurrentPlayerID)
	assert.Equal(t, PhaseAttack, s.Turn.Phase)
	assert.Len(t, events, 1)
}

func TestResign_LastOpposingTeamEndsGame(t *testing.T) {
	rules := DefaultRuleset()
	rules.Teams.Enabled = true
	s, events, err := Resign(teamResignState(), "p2", Map{}, rules, flatCalc{})
	require.NoError(t, err)

	assert.Equal(t, PhaseGameOver, s.Turn.Phase)
	ended, ok := FindGameEnded(events)
	require.True(t, ok)
	assert.Equal(t, PlayerID("p1"), ended.Winner)
	assert.Equal(t, "A", ended.WinnerTeam)
}

func TestResign_RejectsDefeatedOrFinished(t *testing.T) {
	s := teamResignState()
	s.SetPlayerStatus("p3", PlayerDefeated)
	_, _, err := Resign(s, "p3", Map{}, DefaultRuleset(), flatCalc{})
	var ae *ActionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "not_alive", ae.Code)

	s = teamResignState()
	s.Turn.Phase = PhaseGameOver
	_, _, err = Resign(s, "p1", Map{}, DefaultRuleset(), flatCalc{})
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "game_over", ae.Code)
}

func TestResign_DuringOccupySettlesMinimumMove(t *testing.T) {
	s := teamResignState()
	s.Territories["b"] = TerritoryState{Owner: "p2", Armies: 0}
	s.Turn.Phase = PhaseOccupy
	s.PendingOccupy = &PendingOccupy{From: "c", To: "b", MinMove: 3, MaxMove: 4}

	out, events, err := Resign(s, "p2", Map{}, DefaultRuleset(), flatCalc{})
	require.NoError(t, err)

	assert.Nil(t, out.PendingOccupy)
	assert.Equal(t, TerritoryState{Owner: NeutralPlayer, Armies: 3}, out.Territories["b"])
	assert.Equal(t, TerritoryState{Owner: NeutralPlayer, Armies: 2}, out.Territories["c"])
	require.GreaterOrEqual(t, len(events), 2)
	assert.Equal(t, EventOccupied, events[0].Type)
	assert.Equal(t, EventPlayerResigned, events[1].Type)
	assert.NotEqual(t, PlayerID("p2"), out.Turn.CurrentPlayerID)
}
