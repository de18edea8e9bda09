package lobby

import "warfront/internal/domain/game"

type CreateRequest struct {
	UserID          string
	MapID           string
	TimingMode      game.TimingMode
	ExcludeWeekends bool
	TeamsEnabled    bool
	Rules           game.RulesetOverrides
	PreferredColor  string
	TeamID          string
}

type JoinRequest struct {
	GameID         string
	UserID         string
	PreferredColor string
	TeamID         string
}

type StartRequest struct {
	GameID string
	UserID string
}

type Response struct {
	Game game.Game `json:"game"`
}
