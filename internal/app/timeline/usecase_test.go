package timeline

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	staticmaps "warfront/internal/adapter/maps/static"
	"warfront/internal/adapter/repo/memory"
	"warfront/internal/adapter/rules/classic"
	"warfront/internal/app/action"
	"warfront/internal/domain/game"
	"warfront/internal/domain/setup"
)

var start = time.Date(2026, 10, 13, 9, 0, 0, 0, time.UTC)

type world struct {
	games    memory.GameRepo
	logs     memory.ActionLogRepo
	gateway  action.UseCase
	timeline UseCase
	board    game.Map
}

func newWorld(t *testing.T) world {
	t.Helper()
	store := memory.NewStore()
	games := memory.NewGameRepo(store)
	logs := memory.NewActionLogRepo(store)
	maps := staticmaps.Provider{}
	board, err := maps.Get(context.Background(), staticmaps.TwinIslesID)
	require.NoError(t, err)
	return world{
		games: games,
		logs:  logs,
		gateway: action.UseCase{
			TxManager: memory.NewTxManager(store),
			Games:     games,
			Logs:      logs,
			Maps:      maps,
			Engine:    classic.Engine{},
			Now:       func() time.Time { return start },
		},
		timeline: UseCase{Games: games, Logs: logs, Maps: maps, Engine: classic.Engine{}},
		board:    board,
	}
}

func startedGame(t *testing.T, w world, id string, withSnapshot bool) game.Game {
	t.Helper()
	g := game.Game{
		ID:         id,
		Status:     game.StatusActive,
		MapID:      staticmaps.TwinIslesID,
		TimingMode: game.TimingRealtime,
		Seed:       "seed-" + id,
		Participants: []game.Participant{
			{UserID: "u1", PlayerID: "p1", JoinedAt: start},
			{UserID: "u2", PlayerID: "p2", JoinedAt: start.Add(time.Minute)},
			{UserID: "u3", PlayerID: "p3", JoinedAt: start.Add(2 * time.Minute)},
		},
	}
	state, err := setup.Build(setup.Input{Seed: g.Seed, Seats: setup.SeatsFor(g.Participants), Map: w.board, Rules: g.Ruleset()}, classic.Engine{})
	require.NoError(t, err)
	g.State = state
	if withSnapshot {
		snap := state.Clone()
		g.InitialState = &snap
	}
	require.NoError(t, w.games.Create(context.Background(), g))
	return g
}

func userOf(g game.Game, pid game.PlayerID) string {
	p, _ := g.ParticipantByPlayer(pid)
	return p.UserID
}

// nextMove picks a simple legal move for whoever is on turn.
func nextMove(s game.GameState, m game.Map, attacks int) game.Action {
	me := s.Turn.CurrentPlayerID
	switch s.Turn.Phase {
	case game.PhaseReinforcement:
		owned := s.OwnedBy(me)
		return game.Action{Type: game.ActionPlaceReinforcements, Placements: []game.Placement{{Territory: owned[len(owned)-1], Armies: s.Reinforcements.Remaining}}}
	case game.PhaseOccupy:
		return game.Action{Type: game.ActionOccupy, Armies: s.PendingOccupy.MinMove}
	case game.PhaseAttack:
		if attacks < 3 {
			for _, from := range s.OwnedBy(me) {
				if s.Territories[from].Armies < 2 {
					continue
				}
				def, _ := m.Territory(from)
				for _, to := range def.Adjacent {
					if s.Territories[to].Owner != me {
						return game.Action{Type: game.ActionAttack, From: from, To: to}
					}
				}
			}
		}
		return game.Action{Type: game.ActionEndAttack}
	default:
		return game.Action{Type: game.ActionEndTurn}
	}
}

func playGame(t *testing.T, w world, g game.Game, moves int) game.Game {
	t.Helper()
	ctx := context.Background()
	_, err := w.gateway.Resign(ctx, action.ResignRequest{GameID: g.ID, UserID: "u3", ExpectedVersion: g.State.StateVersion})
	require.NoError(t, err)

	attacks := 0
	for i := 0; i < moves; i++ {
		cur, err := w.games.GetByID(ctx, g.ID)
		require.NoError(t, err)
		if cur.Status != game.StatusActive {
			break
		}
		a := nextMove(cur.State, w.board, attacks)
		switch a.Type {
		case game.ActionAttack:
			attacks++
		case game.ActionEndTurn:
			attacks = 0
		}
		_, err = w.gateway.Submit(ctx, action.Request{
			GameID:          g.ID,
			UserID:          userOf(cur, cur.State.Turn.CurrentPlayerID),
			ExpectedVersion: cur.State.StateVersion,
			Action:          a,
		})
		require.NoError(t, err, "move %d: %+v", i, a)
	}
	final, err := w.games.GetByID(ctx, g.ID)
	require.NoError(t, err)
	return final
}

func asJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestReplay_FromSnapshotReproducesLiveState(t *testing.T) {
	w := newWorld(t)
	g := playGame(t, w, startedGame(t, w, "g1", true), 60)

	entries, err := w.logs.ListByGame(context.Background(), "g1")
	require.NoError(t, err)
	frames, final := w.timeline.replay(g, w.board, entries)

	assert.JSONEq(t, asJSON(t, g.State), asJSON(t, final))
	require.Len(t, frames, len(entries)+1)
	for i, e := range entries {
		f := frames[i+1]
		assert.Empty(t, f.ReplayError, "frame %d", f.Index)
		assert.Equal(t, e.StateVersionAfter, f.State.StateVersion)
		assert.Equal(t, e.PlayerID, f.Actor)
	}
	assert.Equal(t, "Resigned", frames[1].Label)
}

func TestReplay_WithoutSnapshotRebuildsFromSeed(t *testing.T) {
	w := newWorld(t)
	g := playGame(t, w, startedGame(t, w, "legacy", false), 40)

	out, err := w.timeline.Execute(context.Background(), Request{GameID: "legacy"})
	require.NoError(t, err)
	last := out.Frames[len(out.Frames)-1]
	assert.Empty(t, last.ReplayError)
	assert.JSONEq(t, asJSON(t, g.State.Public()), asJSON(t, last.State))
}

func TestReplay_BadEntryFallsBackToEvents(t *testing.T) {
	w := newWorld(t)
	g := startedGame(t, w, "broken", false)
	me := g.State.Turn.CurrentPlayerID
	var foreign game.TerritoryID
	for _, id := range w.board.TerritoryIDs() {
		if g.State.Territories[id].Owner != me {
			foreign = id
			break
		}
	}
	mine := g.State.OwnedBy(me)[0]

	entries := []game.LogEntry{
		{
			GameID: "broken", Index: 0, PlayerID: me,
			Action:             game.Action{Type: game.ActionPlace, Territory: foreign, Armies: 1},
			StateVersionBefore: 0, StateVersionAfter: 1,
			Events: []game.Event{{Type: game.EventReinforcementsPlaced, PlayerID: me, Amount: 1,
				Changes: []game.TerritoryChange{{Territory: foreign, Owner: me, Armies: 99}}}},
		},
		{
			GameID: "broken", Index: 1, PlayerID: me,
			Action:             game.Action{Type: game.ActionPlace, Territory: mine, Armies: 1},
			StateVersionBefore: 1, StateVersionAfter: 2,
		},
	}
	frames, final := w.timeline.replay(g, w.board, entries)
	require.Len(t, frames, 3)

	assert.NotEmpty(t, frames[1].ReplayError)
	assert.Equal(t, game.TerritoryState{Owner: me, Armies: 99}, frames[1].State.Territories[foreign])
	assert.Equal(t, g.State.Reinforcements.Remaining-1, frames[1].State.Reinforcements)

	assert.Empty(t, frames[2].ReplayError, "later frames replay normally")
	assert.Equal(t, g.State.Territories[mine].Armies+1, final.Territories[mine].Armies)
	assert.Equal(t, int64(2), final.StateVersion)
}

func TestReplay_BadEntryWithSnapshotKeepsState(t *testing.T) {
	w := newWorld(t)
	g := startedGame(t, w, "snap", true)
	me := g.State.Turn.CurrentPlayerID
	entries := []game.LogEntry{{
		GameID: "snap", Index: 0, PlayerID: me,
		Action:             game.Action{Type: game.ActionFortify, From: "n1", To: "n2", Armies: 1},
		StateVersionBefore: 0, StateVersionAfter: 1,
		Events: []game.Event{{Type: game.EventFortified, Changes: []game.TerritoryChange{{Territory: "n1", Owner: "x", Armies: 50}}}},
	}}
	frames, final := w.timeline.replay(g, w.board, entries)
	assert.NotEmpty(t, frames[1].ReplayError)
	assert.Equal(t, g.State.Territories["n1"], final.Territories["n1"])
	assert.Equal(t, int64(1), final.StateVersion)
}

func TestExecute_UnbuildableStartReplaysFromEvents(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	g := game.Game{
		ID:         "orphan",
		Status:     game.StatusActive,
		MapID:      staticmaps.TwinIslesID,
		TimingMode: game.TimingRealtime,
		Seed:       "orphan-seed",
		Participants: []game.Participant{
			{UserID: "u1", PlayerID: "p1", JoinedAt: start},
			{UserID: "u2", JoinedAt: start},
		},
		State: game.GameState{StateVersion: 2},
	}
	require.NoError(t, w.games.Create(ctx, g))
	require.NoError(t, w.logs.Append(ctx, []game.LogEntry{
		{
			GameID: "orphan", Index: 0, PlayerID: "p1",
			Action:             game.Action{Type: game.ActionPlace, Territory: "n1", Armies: 3},
			StateVersionBefore: 0, StateVersionAfter: 1,
			Events: []game.Event{{Type: game.EventReinforcementsPlaced, PlayerID: "p1", Amount: 3,
				Changes: []game.TerritoryChange{{Territory: "n1", Owner: "p1", Armies: 3}}}},
		},
		{
			GameID: "orphan", Index: 1, PlayerID: "p1",
			Action:             game.Action{Type: game.ActionResign},
			StateVersionBefore: 1, StateVersionAfter: 2,
			Events: []game.Event{{Type: game.EventPlayerResigned, PlayerID: "p1",
				Changes: []game.TerritoryChange{{Territory: "n1", Owner: game.NeutralPlayer, Armies: 3}}}},
		},
	}))

	out, err := w.timeline.Execute(ctx, Request{GameID: "orphan"})
	require.NoError(t, err)
	require.Len(t, out.Frames, 3)
	assert.Contains(t, out.Frames[0].ReplayError, "rebuild initial state")

	assert.Empty(t, out.Frames[1].ReplayError)
	assert.Equal(t, game.TerritoryState{Owner: "p1", Armies: 3}, out.Frames[1].State.Territories["n1"])
	assert.Equal(t, int64(1), out.Frames[1].State.StateVersion)

	last := out.Frames[2]
	assert.Equal(t, game.TerritoryState{Owner: game.NeutralPlayer, Armies: 3}, last.State.Territories["n1"])
	assert.Equal(t, int64(2), last.State.StateVersion)
}

func TestLabel(t *testing.T) {
	timed := game.LogEntry{Action: game.Action{Type: game.ActionEndTurn}, Events: []game.Event{
		{Type: game.EventTurnTimedOut}, {Type: game.EventTurnEnded},
	}}
	assert.Equal(t, "Auto: Ended turn", label(timed))
	assert.Equal(t, "end_attack", label(game.LogEntry{Action: game.Action{Type: game.ActionEndAttack}}))

	resigned := game.LogEntry{Action: game.Action{Type: game.ActionResign}, Events: []game.Event{
		{Type: game.EventOccupied}, {Type: game.EventPlayerResigned}, {Type: game.EventTurnEnded},
	}}
	assert.Equal(t, game.EventPlayerResigned.Label(), label(resigned))
}

func TestExecute_RejectsEmptyID(t *testing.T) {
	_, err := UseCase{}.Execute(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
