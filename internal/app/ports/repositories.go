package ports

import (
	"context"
	"time"

	"warfront/internal/domain/game"
)

type GameRepository interface {
	Create(ctx context.Context, g game.Game) error
	GetByID(ctx context.Context, gameID string) (game.Game, error)
	// SaveWithVersion replaces the document only if its persisted state
	// version still equals expectedVersion; otherwise it returns ErrConflict.
	SaveWithVersion(ctx context.Context, g game.Game, expectedVersion int64) error
	// ListExpired returns ids of active games in the given timing mode whose
	// turn deadline is at or before now.
	ListExpired(ctx context.Context, mode game.TimingMode, now time.Time) ([]string, error)
}

type ActionLogRepository interface {
	Append(ctx context.Context, entries []game.LogEntry) error
	ListByGame(ctx context.Context, gameID string) ([]game.LogEntry, error)
	Latest(ctx context.Context, gameID string) (game.LogEntry, error)
}
