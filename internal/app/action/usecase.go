package action

import (
	"context"
	"errors"
	"time"

	"warfront/internal/app/ports"
	"warfront/internal/app/shared/turnflow"
	"warfront/internal/domain/game"
)

type UseCase struct {
	TxManager ports.TxManager
	Games     ports.GameRepository
	Logs      ports.ActionLogRepository
	Maps      ports.MapProvider
	Engine    ports.RuleEngine
	Metrics   ports.ActionMetrics
	Notifier  ports.TurnNotifier
	Now       func() time.Time
}

// actionContext carries one submission through the pipeline.
type actionContext struct {
	req        Request
	checkClock bool
	now        time.Time
	game       game.Game
	player     game.PlayerID
	board      game.Map
	prev       game.GameState
	events     []game.Event
	turnMoved  bool
}

// Submit applies one player action against the expected state version.
func (u UseCase) Submit(ctx context.Context, req Request) (Response, error) {
	if req.GameID == "" || req.UserID == "" || req.Action.Type == game.ActionResign {
		return Response{}, ErrInvalidRequest
	}
	if err := req.Action.Validate(); err != nil {
		return Response{}, ErrInvalidRequest
	}
	return u.run(ctx, actionContext{req: req, checkClock: true})
}

// Resign removes the caller from the game. It is accepted after the turn
// deadline and whether or not it is the caller's turn.
func (u UseCase) Resign(ctx context.Context, req ResignRequest) (Response, error) {
	if req.GameID == "" || req.UserID == "" {
		return Response{}, ErrInvalidRequest
	}
	return u.run(ctx, actionContext{req: Request{
		GameID:          req.GameID,
		UserID:          req.UserID,
		ExpectedVersion: req.ExpectedVersion,
		Action:          game.Action{Type: game.ActionResign},
	}})
}

func (u UseCase) run(ctx context.Context, ac actionContext) (Response, error) {
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	ac.now = nowFn().UTC()

	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := u.load(txCtx, &ac); err != nil {
			return err
		}
		if err := u.precheck(txCtx, &ac); err != nil {
			return err
		}
		if err := u.apply(&ac); err != nil {
			return err
		}
		if err := u.persist(txCtx, &ac); err != nil {
			return err
		}
		out = Response{
			Events:     ac.events,
			NewVersion: ac.game.State.StateVersion,
			Status:     ac.game.Status,
			State:      ac.game.State.Public(),
		}
		return nil
	})
	if err != nil {
		if u.Metrics != nil {
			if errors.Is(err, ErrVersionConflict) {
				u.Metrics.RecordConflict()
			} else {
				u.Metrics.RecordFailure()
			}
		}
		return Response{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordSuccess(ac.req.Action.Type)
	}
	if ac.turnMoved && u.Notifier != nil && ac.game.Status == game.StatusActive {
		var startedAt time.Time
		if ac.game.Timing != nil {
			startedAt = ac.game.Timing.TurnStartedAt
		}
		u.Notifier.Trigger(ctx, ac.game.ID, ac.game.State.Turn.CurrentPlayerID, startedAt)
	}
	return out, nil
}

func (u UseCase) load(ctx context.Context, ac *actionContext) error {
	g, err := u.Games.GetByID(ctx, ac.req.GameID)
	if errors.Is(err, ports.ErrNotFound) {
		return ErrGameNotFound
	}
	if err != nil {
		return err
	}
	ac.game = g
	ac.prev = g.State
	return nil
}

// precheck enforces the gateway preconditions in a fixed order so each
// failure maps to exactly one error kind.
func (u UseCase) precheck(ctx context.Context, ac *actionContext) error {
	g := ac.game
	if g.Status != game.StatusActive {
		return ErrGameNotActive
	}
	if ac.checkClock && g.TimingMode.Async() && g.Timing != nil && ac.now.After(g.Timing.TurnDeadlineAt) {
		return ErrTurnExpired
	}
	p, ok := g.ParticipantByUser(ac.req.UserID)
	if !ok || p.PlayerID == "" {
		return ErrNotAParticipant
	}
	ac.player = p.PlayerID
	if g.State.StateVersion != ac.req.ExpectedVersion {
		return ErrVersionConflict
	}
	m, err := u.Maps.Get(ctx, g.MapID)
	if errors.Is(err, ports.ErrNotFound) {
		return ErrMapNotFound
	}
	if err != nil {
		return err
	}
	ac.board = m
	return nil
}

func (u UseCase) apply(ac *actionContext) error {
	next, events, err := turnflow.Apply(u.Engine, ac.game.State, ac.player, ac.req.Action, ac.board, ac.game.Ruleset())
	if err != nil {
		return rejected(err)
	}
	ac.game.State = next
	ac.events = events
	ac.turnMoved = turnflow.Settle(&ac.game, ac.prev, events, ac.now)
	return nil
}

func (u UseCase) persist(ctx context.Context, ac *actionContext) error {
	entry := turnflow.Entry(ac.game, ac.player, ac.req.Action, ac.prev.StateVersion, ac.game.State.StateVersion, ac.events, ac.now)
	ac.game.LogLength++
	if err := u.Games.SaveWithVersion(ctx, ac.game, ac.prev.StateVersion); err != nil {
		if errors.Is(err, ports.ErrConflict) {
			return ErrVersionConflict
		}
		return err
	}
	return u.Logs.Append(ctx, []game.LogEntry{entry})
}
