package status

import (
	"time"

	"warfront/internal/domain/game"
)

type Request struct {
	GameID string
	// UserID is optional. A seated caller also sees their own hand.
	UserID string
}

type Participant struct {
	UserID   string        `json:"user_id"`
	PlayerID game.PlayerID `json:"player_id,omitempty"`
	TeamID   string        `json:"team_id,omitempty"`
	Color    string        `json:"color,omitempty"`
}

type Response struct {
	GameID          string           `json:"game_id"`
	OwnerUserID     string           `json:"owner_user_id"`
	Status          game.Status      `json:"status"`
	MapID           string           `json:"map_id"`
	TimingMode      game.TimingMode  `json:"timing_mode"`
	ExcludeWeekends bool             `json:"exclude_weekends"`
	TeamsEnabled    bool             `json:"teams_enabled"`
	Participants    []Participant    `json:"participants"`
	TurnStartedAt   *time.Time       `json:"turn_started_at,omitempty"`
	TurnDeadlineAt  *time.Time       `json:"turn_deadline_at,omitempty"`
	WinnerPlayerID  game.PlayerID    `json:"winner_player_id,omitempty"`
	WinnerTeamID    string           `json:"winner_team_id,omitempty"`
	State           game.PublicState `json:"state"`
	Hand            []game.Card      `json:"hand,omitempty"`
}
