package memory

import (
	"context"
	"fmt"

	"warfront/internal/app/ports"
	"warfront/internal/domain/game"
)

type ActionLogRepo struct {
	store *Store
}

func NewActionLogRepo(store *Store) ActionLogRepo {
	return ActionLogRepo{store: store}
}

// Append requires indexes to continue the game's log without gaps.
func (r ActionLogRepo) Append(ctx context.Context, entries []game.LogEntry) error {
	defer r.store.lock(ctx)()
	for _, e := range entries {
		next := len(r.store.logs[e.GameID])
		if e.Index != next {
			return fmt.Errorf("append log %s[%d]: expected index %d: %w", e.GameID, e.Index, next, ports.ErrConflict)
		}
		r.store.logs[e.GameID] = append(r.store.logs[e.GameID], e)
	}
	return nil
}

func (r ActionLogRepo) ListByGame(ctx context.Context, gameID string) ([]game.LogEntry, error) {
	defer r.store.lock(ctx)()
	return append([]game.LogEntry(nil), r.store.logs[gameID]...), nil
}

func (r ActionLogRepo) Latest(ctx context.Context, gameID string) (game.LogEntry, error) {
	defer r.store.lock(ctx)()
	entries := r.store.logs[gameID]
	if len(entries) == 0 {
		return game.LogEntry{}, ports.ErrNotFound
	}
	return entries[len(entries)-1], nil
}
