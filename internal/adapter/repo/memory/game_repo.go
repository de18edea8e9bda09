package memory

import (
	"context"
	"sort"
	"time"

	"warfront/internal/app/ports"
	"warfront/internal/domain/game"
)

type GameRepo struct {
	store *Store
}

func NewGameRepo(store *Store) GameRepo {
	return GameRepo{store: store}
}

func (r GameRepo) Create(ctx context.Context, g game.Game) error {
	defer r.store.lock(ctx)()
	if _, exists := r.store.games[g.ID]; exists {
		return ports.ErrConflict
	}
	b, err := encodeGame(g)
	if err != nil {
		return err
	}
	r.store.games[g.ID] = b
	return nil
}

func (r GameRepo) GetByID(ctx context.Context, gameID string) (game.Game, error) {
	defer r.store.lock(ctx)()
	b, ok := r.store.games[gameID]
	if !ok {
		return game.Game{}, ports.ErrNotFound
	}
	return decodeGame(b)
}

func (r GameRepo) SaveWithVersion(ctx context.Context, g game.Game, expectedVersion int64) error {
	defer r.store.lock(ctx)()
	b, ok := r.store.games[g.ID]
	if !ok {
		return ports.ErrNotFound
	}
	current, err := decodeGame(b)
	if err != nil {
		return err
	}
	if current.State.StateVersion != expectedVersion {
		return ports.ErrConflict
	}
	next, err := encodeGame(g)
	if err != nil {
		return err
	}
	r.store.games[g.ID] = next
	return nil
}

func (r GameRepo) ListExpired(ctx context.Context, mode game.TimingMode, now time.Time) ([]string, error) {
	defer r.store.lock(ctx)()
	out := []string{}
	for id, b := range r.store.games {
		g, err := decodeGame(b)
		if err != nil {
			return nil, err
		}
		if g.Status != game.StatusActive || g.TimingMode != mode || g.Timing == nil {
			continue
		}
		if !g.Timing.TurnDeadlineAt.After(now) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}
