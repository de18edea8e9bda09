package timeline

import "warfront/internal/domain/game"

type Request struct {
	GameID string
}

// Frame is one step of a game's history. Frame 0 is the opening position.
type Frame struct {
	Index       int              `json:"index"`
	Actor       game.PlayerID    `json:"actor,omitempty"`
	Label       string           `json:"label"`
	Round       int              `json:"round"`
	Phase       game.Phase       `json:"phase"`
	State       game.PublicState `json:"state"`
	ReplayError string           `json:"replayError,omitempty"`
}

type Response struct {
	GameID string  `json:"gameId"`
	Frames []Frame `json:"frames"`
}
