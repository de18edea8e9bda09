// Package timeline rebuilds a game's move-by-move history from its action log.
package timeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"warfront/internal/app/ports"
	"warfront/internal/app/shared/turnflow"
	"warfront/internal/domain/game"
	"warfront/internal/domain/setup"
)

var ErrInvalidRequest = errors.New("invalid timeline request")

const autoPrefix = "Auto: "

type UseCase struct {
	Games  ports.GameRepository
	Logs   ports.ActionLogRepository
	Maps   ports.MapProvider
	Engine ports.RuleEngine
}

// Execute never writes. Per-entry replay failures are reported on the frame
// and do not stop the rebuild.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.GameID) == "" {
		return Response{}, ErrInvalidRequest
	}
	g, err := u.Games.GetByID(ctx, req.GameID)
	if err != nil {
		return Response{}, err
	}
	m, err := u.Maps.Get(ctx, g.MapID)
	if err != nil {
		return Response{}, fmt.Errorf("load map %s: %w", g.MapID, err)
	}
	entries, err := u.Logs.ListByGame(ctx, g.ID)
	if err != nil {
		return Response{}, err
	}
	frames, _ := u.replay(g, m, entries)
	return Response{GameID: g.ID, Frames: frames}, nil
}

// base describes where a replay starts from.
type base int

const (
	// baseSnapshot is the start snapshot; entries replay exactly.
	baseSnapshot base = iota
	// baseSeed is rebuilt from the seed; failing entries fall back to events.
	baseSeed
	// baseEvents is an empty board; every entry is applied from its events.
	baseEvents
)

// replay returns the frames and the final simulated state. It always yields
// one frame per entry plus the opening frame.
func (u UseCase) replay(g game.Game, m game.Map, entries []game.LogEntry) ([]Frame, game.GameState) {
	sim, from, baseErr := u.initialState(g, m)
	rules := g.Ruleset()

	opening := Frame{
		Index: 0,
		Label: "Game started",
		Round: sim.Turn.Round,
		Phase: sim.Turn.Phase,
		State: sim.Public(),
	}
	if baseErr != nil {
		opening.ReplayError = baseErr.Error()
	}
	frames := make([]Frame, 0, len(entries)+1)
	frames = append(frames, opening)
	for i, e := range entries {
		f := Frame{Index: i + 1, Actor: e.PlayerID, Label: label(e)}
		var next game.GameState
		if from == baseEvents {
			next = applyEvents(sim, e.Events)
		} else {
			var err error
			next, _, err = turnflow.Apply(u.Engine, sim, e.PlayerID, e.Action, m, rules)
			if err != nil {
				f.ReplayError = err.Error()
				if from == baseSeed {
					next = applyEvents(sim, e.Events)
				} else {
					next = sim
				}
			}
		}
		next.StateVersion = e.StateVersionAfter
		sim = next
		f.Round = sim.Turn.Round
		f.Phase = sim.Turn.Phase
		f.State = sim.Public()
		frames = append(frames, f)
	}
	return frames, sim
}

// initialState prefers the snapshot captured at start. Games without one are
// rebuilt from the seed, which is exact only if the builder has not changed
// since. When even that fails the replay starts from an empty board holding
// only the seated players.
func (u UseCase) initialState(g game.Game, m game.Map) (game.GameState, base, error) {
	if g.InitialState != nil {
		return g.InitialState.Clone(), baseSnapshot, nil
	}
	state, err := setup.Build(setup.Input{
		Seed:  g.Seed,
		Seats: setup.SeatsFor(g.Participants),
		Map:   m,
		Rules: g.Ruleset(),
	}, u.Engine)
	if err != nil {
		return emptyState(g), baseEvents, fmt.Errorf("rebuild initial state: %w", err)
	}
	return state, baseSeed, nil
}

func emptyState(g game.Game) game.GameState {
	s := game.GameState{Territories: map[game.TerritoryID]game.TerritoryState{}}
	for _, p := range g.Participants {
		if p.PlayerID == "" {
			continue
		}
		s.Players = append(s.Players, game.Player{ID: p.PlayerID, Status: game.PlayerAlive, TeamID: p.TeamID})
		s.TurnOrder = append(s.TurnOrder, p.PlayerID)
	}
	return s
}

func label(e game.LogEntry) string {
	auto := false
	var primary *game.Event
	for i := range e.Events {
		if e.Events[i].Type == game.EventTurnTimedOut {
			auto = true
			continue
		}
		if primary == nil || e.Events[i].Type == game.EventPlayerResigned {
			primary = &e.Events[i]
		}
	}
	text := string(e.Action.Type)
	if primary != nil {
		text = primary.Type.Label()
	}
	if auto {
		return autoPrefix + text
	}
	return text
}
