// Package lobby manages games before they start: membership, preferences,
// colour assignment and the transition to an active game.
package lobby

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"warfront/internal/app/ports"
	"warfront/internal/app/shared/turnflow"
	"warfront/internal/domain/game"
	"warfront/internal/domain/palette"
	"warfront/internal/domain/setup"
)

var (
	ErrInvalidRequest  = errors.New("invalid lobby request")
	ErrGameNotFound    = errors.New("game not found")
	ErrNotInLobby      = errors.New("game already started")
	ErrNotOwner        = errors.New("only the owner can start the game")
	ErrLobbyFull       = errors.New("lobby is full")
	ErrTeamsIncomplete = errors.New("every player needs a team and at least two teams are required")
)

const MaxPlayers = 8

type UseCase struct {
	TxManager ports.TxManager
	Games     ports.GameRepository
	Maps      ports.MapProvider
	Engine    ports.RuleEngine
	Notifier  ports.TurnNotifier
	Now       func() time.Time
	NewID     func() string
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now().UTC()
	}
	return u.Now().UTC()
}

func (u UseCase) newID() string {
	if u.NewID == nil {
		return uuid.NewString()
	}
	return u.NewID()
}

func (u UseCase) Create(ctx context.Context, req CreateRequest) (Response, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" || req.MapID == "" || !acceptableColor(req.PreferredColor) {
		return Response{}, ErrInvalidRequest
	}
	if req.TimingMode == "" {
		req.TimingMode = game.TimingRealtime
	}
	switch req.TimingMode {
	case game.TimingRealtime, game.TimingAsync1D, game.TimingAsync3D:
	default:
		return Response{}, ErrInvalidRequest
	}
	if _, err := u.Maps.Get(ctx, req.MapID); err != nil {
		return Response{}, fmt.Errorf("map %s: %w", req.MapID, err)
	}

	now := u.now()
	g := game.Game{
		ID:              u.newID(),
		OwnerUserID:     req.UserID,
		Status:          game.StatusLobby,
		MapID:           req.MapID,
		Rules:           req.Rules,
		TimingMode:      req.TimingMode,
		ExcludeWeekends: req.ExcludeWeekends,
		TeamsEnabled:    req.TeamsEnabled,
		Seed:            u.newID(),
		Participants: []game.Participant{{
			UserID:         req.UserID,
			TeamID:         req.TeamID,
			PreferredColor: req.PreferredColor,
			JoinedAt:       now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	assignColors(&g)
	if err := u.Games.Create(ctx, g); err != nil {
		return Response{}, err
	}
	return Response{Game: g}, nil
}

// Join adds the caller to the lobby, or updates their preferences if they
// are already in it. Colours are recomputed for everyone.
func (u UseCase) Join(ctx context.Context, req JoinRequest) (Response, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	if req.GameID == "" || req.UserID == "" || !acceptableColor(req.PreferredColor) {
		return Response{}, ErrInvalidRequest
	}
	var out game.Game
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		g, err := u.loadLobby(txCtx, req.GameID)
		if err != nil {
			return err
		}
		found := false
		for i := range g.Participants {
			if g.Participants[i].UserID == req.UserID {
				g.Participants[i].PreferredColor = req.PreferredColor
				g.Participants[i].TeamID = req.TeamID
				found = true
			}
		}
		if !found {
			if len(g.Participants) >= MaxPlayers {
				return ErrLobbyFull
			}
			g.Participants = append(g.Participants, game.Participant{
				UserID:         req.UserID,
				TeamID:         req.TeamID,
				PreferredColor: req.PreferredColor,
				JoinedAt:       u.now(),
			})
		}
		assignColors(&g)
		g.UpdatedAt = u.now()
		if err := u.Games.SaveWithVersion(txCtx, g, g.State.StateVersion); err != nil {
			return err
		}
		out = g
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	return Response{Game: out}, nil
}

// Start freezes the roster: colours become final, engine player ids are
// handed out in join order and the opening position is built from the seed.
func (u UseCase) Start(ctx context.Context, req StartRequest) (Response, error) {
	if req.GameID == "" || req.UserID == "" {
		return Response{}, ErrInvalidRequest
	}
	var out game.Game
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		g, err := u.loadLobby(txCtx, req.GameID)
		if err != nil {
			return err
		}
		if g.OwnerUserID != req.UserID {
			return ErrNotOwner
		}
		if g.TeamsEnabled && !teamsComplete(g.Participants) {
			return ErrTeamsIncomplete
		}
		m, err := u.Maps.Get(txCtx, g.MapID)
		if err != nil {
			return fmt.Errorf("map %s: %w", g.MapID, err)
		}

		assignColors(&g)
		sortByJoin(g.Participants)
		for i := range g.Participants {
			g.Participants[i].PlayerID = game.PlayerID("p" + strconv.Itoa(i+1))
			if !g.TeamsEnabled {
				g.Participants[i].TeamID = ""
			}
		}
		state, err := setup.Build(setup.Input{
			Seed:  g.Seed,
			Seats: setup.SeatsFor(g.Participants),
			Map:   m,
			Rules: g.Ruleset(),
		}, u.Engine)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		snapshot := state.Clone()
		now := u.now()
		expected := g.State.StateVersion
		g.State = state
		g.InitialState = &snapshot
		g.Status = game.StatusActive
		g.Timing = turnflow.StartTurn(g.TimingMode, g.ExcludeWeekends, now)
		g.UpdatedAt = now
		if err := u.Games.SaveWithVersion(txCtx, g, expected); err != nil {
			return err
		}
		out = g
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	if u.Notifier != nil {
		var startedAt time.Time
		if out.Timing != nil {
			startedAt = out.Timing.TurnStartedAt
		}
		u.Notifier.Trigger(ctx, out.ID, out.State.Turn.CurrentPlayerID, startedAt)
	}
	return Response{Game: out}, nil
}

func (u UseCase) loadLobby(ctx context.Context, id string) (game.Game, error) {
	g, err := u.Games.GetByID(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return game.Game{}, ErrGameNotFound
	}
	if err != nil {
		return game.Game{}, err
	}
	if g.Status != game.StatusLobby {
		return game.Game{}, ErrNotInLobby
	}
	return g, nil
}

func assignColors(g *game.Game) {
	inputs := make([]palette.PlayerInput, 0, len(g.Participants))
	for _, p := range g.Participants {
		in := palette.PlayerInput{ID: p.UserID, JoinedAt: p.JoinedAt, PreferredColor: p.PreferredColor}
		if g.TeamsEnabled {
			in.TeamID = p.TeamID
		}
		inputs = append(inputs, in)
	}
	colors := palette.Resolve(inputs)
	for i := range g.Participants {
		g.Participants[i].Color = colors[g.Participants[i].UserID]
	}
}

func teamsComplete(ps []game.Participant) bool {
	teams := map[string]bool{}
	for _, p := range ps {
		if p.TeamID == "" {
			return false
		}
		teams[p.TeamID] = true
	}
	return len(teams) >= 2
}

func sortByJoin(ps []game.Participant) {
	sort.SliceStable(ps, func(i, j int) bool {
		if !ps[i].JoinedAt.Equal(ps[j].JoinedAt) {
			return ps[i].JoinedAt.Before(ps[j].JoinedAt)
		}
		return ps[i].UserID < ps[j].UserID
	})
}

// acceptableColor allows no preference or any palette entry.
func acceptableColor(c string) bool {
	return strings.TrimSpace(c) == "" || palette.Valid(c)
}
