package status

import (
	"context"
	"errors"
	"strings"

	"warfront/internal/app/ports"
	"warfront/internal/domain/game"
)

var (
	ErrInvalidRequest = errors.New("invalid status request")
	ErrGameNotFound   = errors.New("game not found")
)

type UseCase struct {
	Games ports.GameRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.GameID) == "" {
		return Response{}, ErrInvalidRequest
	}
	g, err := u.Games.GetByID(ctx, req.GameID)
	if errors.Is(err, ports.ErrNotFound) {
		return Response{}, ErrGameNotFound
	}
	if err != nil {
		return Response{}, err
	}
	return View(g, req.UserID), nil
}

// View projects a game for a viewer. Seeds, the deck order and other
// players' hands never leave the server.
func View(g game.Game, viewerUserID string) Response {
	out := Response{
		GameID:          g.ID,
		OwnerUserID:     g.OwnerUserID,
		Status:          g.Status,
		MapID:           g.MapID,
		TimingMode:      g.TimingMode,
		ExcludeWeekends: g.ExcludeWeekends,
		TeamsEnabled:    g.TeamsEnabled,
		Participants:    make([]Participant, 0, len(g.Participants)),
		WinnerPlayerID:  g.WinnerPlayerID,
		WinnerTeamID:    g.WinnerTeamID,
		State:           g.State.Public(),
	}
	for _, p := range g.Participants {
		out.Participants = append(out.Participants, Participant{
			UserID:   p.UserID,
			PlayerID: p.PlayerID,
			TeamID:   p.TeamID,
			Color:    p.Color,
		})
	}
	if g.Timing != nil {
		started, deadline := g.Timing.TurnStartedAt, g.Timing.TurnDeadlineAt
		out.TurnStartedAt = &started
		out.TurnDeadlineAt = &deadline
	}
	if p, ok := g.ParticipantByUser(viewerUserID); ok && p.PlayerID != "" {
		out.Hand = append([]game.Card(nil), g.State.Hands[p.PlayerID]...)
	}
	return out
}
