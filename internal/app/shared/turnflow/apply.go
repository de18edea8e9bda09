// Package turnflow holds the state transitions shared by live play, timeout
// resolution and history replay, so all three advance a game identically.
package turnflow

import (
	"time"

	"warfront/internal/app/ports"
	"warfront/internal/domain/deadline"
	"warfront/internal/domain/game"
)

// Apply runs one logged action against state. A placement batch expands into
// primitive placements and is all-or-nothing: if any step is rejected the
// original state is returned with the error. Every primitive, and a
// resignation, advances StateVersion by exactly one.
func Apply(engine ports.RuleEngine, state game.GameState, player game.PlayerID, a game.Action, m game.Map, rules game.Ruleset) (game.GameState, []game.Event, error) {
	if a.Type == game.ActionResign {
		next, events, err := game.Resign(state, player, m, rules, engine)
		if err != nil {
			return state, nil, err
		}
		next.StateVersion = state.StateVersion + 1
		return next, events, nil
	}

	working := state
	var all []game.Event
	for _, step := range a.Expand() {
		next, events, err := engine.ApplyAction(working, player, step, m, rules)
		if err != nil {
			return state, nil, err
		}
		next.StateVersion = working.StateVersion + 1
		working = next
		all = append(all, events...)
	}
	return working, all, nil
}

// Settle brings the game document in line with a state that moved on from
// prev. A decided game is finished and loses its timing. Otherwise timing is
// recomputed only when the current player changed. It reports whether a new
// turn started.
func Settle(g *game.Game, prev game.GameState, events []game.Event, now time.Time) bool {
	g.UpdatedAt = now
	if ended, ok := game.FindGameEnded(events); ok || g.State.Turn.Phase.Terminal() {
		g.Status = game.StatusFinished
		g.Timing = nil
		if ok {
			g.WinnerPlayerID = ended.Winner
			g.WinnerTeamID = ended.WinnerTeam
		}
		return false
	}
	if g.State.Turn.CurrentPlayerID == prev.Turn.CurrentPlayerID {
		return false
	}
	g.Timing = StartTurn(g.TimingMode, g.ExcludeWeekends, now)
	return true
}

// StartTurn returns the timing for a turn starting at now, or nil in
// realtime mode.
func StartTurn(mode game.TimingMode, excludeWeekends bool, now time.Time) *game.TurnTiming {
	at, ok := deadline.Compute(now, mode, excludeWeekends)
	if !ok {
		return nil
	}
	return &game.TurnTiming{TurnStartedAt: now, TurnDeadlineAt: at}
}

// Entry builds the next log entry for g. The caller advances g.LogLength.
func Entry(g game.Game, player game.PlayerID, a game.Action, before, after int64, events []game.Event, now time.Time) game.LogEntry {
	return game.LogEntry{
		GameID:             g.ID,
		Index:              g.LogLength,
		PlayerID:           player,
		Action:             a,
		StateVersionBefore: before,
		StateVersionAfter:  after,
		Events:             events,
		CreatedAt:          now,
	}
}
