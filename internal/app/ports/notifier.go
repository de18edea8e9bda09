package ports

import (
	"context"
	"time"

	"warfront/internal/domain/game"
)

type TurnNotification struct {
	GameID           string
	ExpectedPlayerID game.PlayerID
	UserID           string
	TurnStartedAt    time.Time
	TurnDeadlineAt   time.Time
}

// TurnDispatcher hands a notification to the delivery subsystem, which owns
// retries.
type TurnDispatcher interface {
	Dispatch(ctx context.Context, n TurnNotification) error
}

// TurnNotifier schedules a best-effort "your turn" notification. It must not
// block the caller.
type TurnNotifier interface {
	Trigger(ctx context.Context, gameID string, expected game.PlayerID, turnStartedAt time.Time)
}
