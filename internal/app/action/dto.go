package action

import "warfront/internal/domain/game"

type Request struct {
	GameID          string
	UserID          string
	ExpectedVersion int64
	Action          game.Action
}

type ResignRequest struct {
	GameID          string
	UserID          string
	ExpectedVersion int64
}

type Response struct {
	Events     []game.Event     `json:"events"`
	NewVersion int64            `json:"new_version"`
	Status     game.Status      `json:"status"`
	State      game.PublicState `json:"state"`
}
