package action

import (
	"context"
	"encoding/json"
	"time"

	staticmaps "warfront/internal/adapter/maps/static"
	"warfront/internal/adapter/rules/classic"
	"warfront/internal/app/ports"
	"warfront/internal/domain/game"
	"warfront/internal/domain/seeded"
)

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubGameRepo struct {
	byID  map[string]game.Game
	saves int
}

// copyGame round-trips through JSON so tests never share state with the repo.
func copyGame(g game.Game) game.Game {
	b, _ := json.Marshal(g)
	var out game.Game
	_ = json.Unmarshal(b, &out)
	return out
}

func (r *stubGameRepo) Create(_ context.Context, g game.Game) error {
	r.byID[g.ID] = copyGame(g)
	return nil
}

func (r *stubGameRepo) GetByID(_ context.Context, id string) (game.Game, error) {
	g, ok := r.byID[id]
	if !ok {
		return game.Game{}, ports.ErrNotFound
	}
	return copyGame(g), nil
}

func (r *stubGameRepo) SaveWithVersion(_ context.Context, g game.Game, expected int64) error {
	current, ok := r.byID[g.ID]
	if !ok || current.State.StateVersion != expected {
		return ports.ErrConflict
	}
	r.saves++
	r.byID[g.ID] = copyGame(g)
	return nil
}

func (r *stubGameRepo) ListExpired(context.Context, game.TimingMode, time.Time) ([]string, error) {
	return nil, nil
}

type stubLogRepo struct {
	entries []game.LogEntry
}

func (r *stubLogRepo) Append(_ context.Context, entries []game.LogEntry) error {
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *stubLogRepo) ListByGame(_ context.Context, gameID string) ([]game.LogEntry, error) {
	var out []game.LogEntry
	for _, e := range r.entries {
		if e.GameID == gameID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubLogRepo) Latest(_ context.Context, gameID string) (game.LogEntry, error) {
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].GameID == gameID {
			return r.entries[i], nil
		}
	}
	return game.LogEntry{}, ports.ErrNotFound
}

type stubMetrics struct {
	success, conflict, failure int
}

func (m *stubMetrics) RecordSuccess(game.ActionType) { m.success++ }
func (m *stubMetrics) RecordConflict()               { m.conflict++ }
func (m *stubMetrics) RecordFailure()                { m.failure++ }
func (m *stubMetrics) RecordTimeout(bool)            {}

type triggered struct {
	gameID    string
	expected  game.PlayerID
	startedAt time.Time
}

type stubNotifier struct {
	calls []triggered
}

func (n *stubNotifier) Trigger(_ context.Context, gameID string, expected game.PlayerID, startedAt time.Time) {
	n.calls = append(n.calls, triggered{gameID, expected, startedAt})
}

// Wednesday.
var fixedNow = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

func newGame() game.Game {
	state := game.GameState{
		Players: []game.Player{
			{ID: "p1", Status: game.PlayerAlive},
			{ID: "p2", Status: game.PlayerAlive},
		},
		TurnOrder: []game.PlayerID{"p1", "p2"},
		Territories: map[game.TerritoryID]game.TerritoryState{
			"n1": {Owner: "p1", Armies: 3},
			"n2": {Owner: "p1", Armies: 2},
			"n3": {Owner: "p1", Armies: 2},
			"n4": {Owner: "p1", Armies: 6},
			"s1": {Owner: "p2", Armies: 1},
			"s2": {Owner: "p2", Armies: 2},
			"s3": {Owner: "p2", Armies: 2},
			"s4": {Owner: "p2", Armies: 2},
		},
		Turn:           game.Turn{CurrentPlayerID: "p1", Phase: game.PhaseReinforcement, Round: 1},
		Reinforcements: game.Reinforcements{Remaining: 5},
		Hands:          map[game.PlayerID][]game.Card{},
		RNG:            seeded.Cursor{Seed: "gateway"},
		StateVersion:   7,
	}
	return game.Game{
		ID:         "g1",
		Status:     game.StatusActive,
		MapID:      staticmaps.TwinIslesID,
		TimingMode: game.TimingAsync1D,
		Participants: []game.Participant{
			{UserID: "u1", PlayerID: "p1"},
			{UserID: "u2", PlayerID: "p2"},
			{UserID: "u3"},
		},
		Seed:      "gateway",
		State:     state,
		Timing:    &game.TurnTiming{TurnStartedAt: fixedNow.Add(-time.Hour), TurnDeadlineAt: fixedNow.Add(23 * time.Hour)},
		LogLength: 3,
	}
}

type fixture struct {
	uc       UseCase
	games    *stubGameRepo
	logs     *stubLogRepo
	metrics  *stubMetrics
	notifier *stubNotifier
}

func newFixture(g game.Game) fixture {
	games := &stubGameRepo{byID: map[string]game.Game{g.ID: copyGame(g)}}
	logs := &stubLogRepo{}
	metrics := &stubMetrics{}
	notifier := &stubNotifier{}
	return fixture{
		uc: UseCase{
			TxManager: stubTxManager{},
			Games:     games,
			Logs:      logs,
			Maps:      staticmaps.Provider{},
			Engine:    classic.Engine{},
			Metrics:   metrics,
			Notifier:  notifier,
			Now:       func() time.Time { return fixedNow },
		},
		games:    games,
		logs:     logs,
		metrics:  metrics,
		notifier: notifier,
	}
}
