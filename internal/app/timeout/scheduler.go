package timeout

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"warfront/internal/app/ports"
	"warfront/internal/app/shared/turnflow"
	"warfront/internal/domain/game"
)

// Modes are scanned separately so each query can use the
// (status, timing_mode, turn_deadline_at) index.
var asyncModes = []game.TimingMode{game.TimingAsync1D, game.TimingAsync3D}

const defaultConcurrency = 4

type Scheduler struct {
	TxManager   ports.TxManager
	Games       ports.GameRepository
	Logs        ports.ActionLogRepository
	Maps        ports.MapProvider
	Engine      ports.RuleEngine
	Metrics     ports.ActionMetrics
	Notifier    ports.TurnNotifier
	Policy      Policy
	Logger      logrus.FieldLogger
	Concurrency int
	Now         func() time.Time
}

type Summary struct {
	Expired  int `json:"expired"`
	Resolved int `json:"resolved"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeResolved
)

// RunOnce resolves every game whose turn deadline has passed. It is safe to
// call repeatedly or concurrently: each game is re-read before acting and a
// game already handled is skipped. A failing game is logged and does not
// stop the others; only listing errors are returned.
func (s Scheduler) RunOnce(ctx context.Context) (Summary, error) {
	nowFn := s.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	logger := s.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	limit := s.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}
	now := nowFn().UTC()

	var (
		expired, resolved, skipped, failed atomic.Int64
		listErrs                           []error
	)
	for _, mode := range asyncModes {
		ids, err := s.Games.ListExpired(ctx, mode, now)
		if err != nil {
			logger.WithError(err).WithField("mode", mode).Error("list expired games")
			listErrs = append(listErrs, fmt.Errorf("list expired %s: %w", mode, err))
			continue
		}
		expired.Add(int64(len(ids)))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(limit)
		for _, id := range ids {
			id := id
			g.Go(func() error {
				out, err := s.resolveGame(gctx, id, now)
				switch {
				case err != nil:
					failed.Add(1)
					logger.WithError(err).WithFields(logrus.Fields{"game_id": id, "mode": mode}).Warn("timeout resolution failed")
				case out == outcomeResolved:
					resolved.Add(1)
				default:
					skipped.Add(1)
				}
				if s.Metrics != nil {
					s.Metrics.RecordTimeout(err == nil && out == outcomeResolved)
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	sum := Summary{
		Expired:  int(expired.Load()),
		Resolved: int(resolved.Load()),
		Skipped:  int(skipped.Load()),
		Failed:   int(failed.Load()),
	}
	if sum.Expired > 0 {
		logger.WithFields(logrus.Fields{
			"expired":  sum.Expired,
			"resolved": sum.Resolved,
			"skipped":  sum.Skipped,
			"failed":   sum.Failed,
		}).Info("timeout pass complete")
	}
	return sum, errors.Join(listErrs...)
}

func (s Scheduler) resolveGame(ctx context.Context, gameID string, now time.Time) (outcome, error) {
	var (
		result    = outcomeSkipped
		turnMoved bool
		settled   game.Game
	)
	err := s.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		g, err := s.Games.GetByID(txCtx, gameID)
		if err != nil {
			return err
		}
		if g.Status != game.StatusActive || !g.TimingMode.Async() || g.Timing == nil || now.Before(g.Timing.TurnDeadlineAt) {
			return nil
		}
		res := s.Policy.Resolve(g.State)
		if res == nil {
			return nil
		}
		m, err := s.Maps.Get(txCtx, g.MapID)
		if err != nil {
			return fmt.Errorf("load map %s: %w", g.MapID, err)
		}

		prev := g.State
		entries, all, err := s.play(g, res, m, now)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		g.State = entries[len(entries)-1].state
		turnMoved = turnflow.Settle(&g, prev, all, now)

		logEntries := make([]game.LogEntry, 0, len(entries))
		for _, e := range entries {
			logEntries = append(logEntries, e.entry)
		}
		g.LogLength += len(logEntries)
		if err := s.Games.SaveWithVersion(txCtx, g, prev.StateVersion); err != nil {
			return err
		}
		if err := s.Logs.Append(txCtx, logEntries); err != nil {
			return err
		}
		result = outcomeResolved
		settled = g
		return nil
	})
	if errors.Is(err, ports.ErrConflict) {
		// A player action landed first.
		return outcomeSkipped, nil
	}
	if err != nil {
		return outcomeSkipped, err
	}
	if turnMoved && s.Notifier != nil && settled.Status == game.StatusActive && settled.Timing != nil {
		s.Notifier.Trigger(ctx, settled.ID, settled.State.Turn.CurrentPlayerID, settled.Timing.TurnStartedAt)
	}
	return result, nil
}

type playedStep struct {
	entry game.LogEntry
	state game.GameState
}

// play applies the resolution's steps, one log entry per step. The first
// entry's events open with the timeout marker.
func (s Scheduler) play(g game.Game, res *Resolution, m game.Map, now time.Time) ([]playedStep, []game.Event, error) {
	rules := g.Ruleset()
	state := g.State
	var (
		out []playedStep
		all []game.Event
	)
	for _, step := range res.Steps {
		if state.Turn.Phase.Terminal() {
			break
		}
		if step.OnlyIfStillTurn && state.Turn.CurrentPlayerID != res.PlayerID {
			continue
		}
		next, events, err := turnflow.Apply(s.Engine, state, res.PlayerID, step.Action, m, rules)
		if err != nil {
			return nil, nil, fmt.Errorf("auto %s: %w", step.Action.Type, err)
		}
		if len(out) == 0 {
			marker := game.Event{Type: game.EventTurnTimedOut, PlayerID: res.PlayerID, Phase: state.Turn.Phase, Round: state.Turn.Round}
			events = append([]game.Event{marker}, events...)
		}
		entry := turnflow.Entry(g, res.PlayerID, step.Action, state.StateVersion, next.StateVersion, events, now)
		entry.Index = g.LogLength + len(out)
		out = append(out, playedStep{entry: entry, state: next})
		all = append(all, events...)
		state = next
	}
	return out, all, nil
}
