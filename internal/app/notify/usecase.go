// Package notify triggers "your turn" notifications without ever holding up
// or failing the game write that caused them.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"warfront/internal/app/ports"
	"warfront/internal/domain/game"
)

const defaultTimeout = 10 * time.Second

type UseCase struct {
	Games      ports.GameRepository
	Dispatcher ports.TurnDispatcher
	Logger     logrus.FieldLogger
	Timeout    time.Duration
}

// Trigger sends in the background and returns immediately.
func (u UseCase) Trigger(ctx context.Context, gameID string, expected game.PlayerID, turnStartedAt time.Time) {
	timeout := u.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := u.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		if _, err := u.Send(sendCtx, gameID, expected, turnStartedAt); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{"game_id": gameID, "player_id": expected}).Warn("turn notification failed")
		}
	}()
}

// Send re-reads the game and dispatches only if the same turn is still
// running. A turn that has moved on is not an error; Send reports false.
func (u UseCase) Send(ctx context.Context, gameID string, expected game.PlayerID, turnStartedAt time.Time) (bool, error) {
	g, err := u.Games.GetByID(ctx, gameID)
	if errors.Is(err, ports.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if stale(g, expected, turnStartedAt) {
		return false, nil
	}
	p, ok := g.ParticipantByPlayer(expected)
	if !ok {
		return false, nil
	}
	n := ports.TurnNotification{
		GameID:           g.ID,
		ExpectedPlayerID: expected,
		UserID:           p.UserID,
		TurnStartedAt:    turnStartedAt,
	}
	if g.Timing != nil {
		n.TurnDeadlineAt = g.Timing.TurnDeadlineAt
	}
	if err := u.Dispatcher.Dispatch(ctx, n); err != nil {
		return false, err
	}
	return true, nil
}

func stale(g game.Game, expected game.PlayerID, turnStartedAt time.Time) bool {
	if g.Status != game.StatusActive || g.State.Turn.CurrentPlayerID != expected {
		return true
	}
	if g.Timing == nil {
		return !turnStartedAt.IsZero()
	}
	return !g.Timing.TurnStartedAt.Equal(turnStartedAt)
}
