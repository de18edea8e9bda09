package action

import (
	"errors"

	"warfront/internal/domain/game"
)

var (
	ErrInvalidRequest  = errors.New("invalid action request")
	ErrGameNotFound    = errors.New("game not found")
	ErrGameNotActive   = errors.New("game not active")
	ErrTurnExpired     = errors.New("turn expired")
	ErrNotAParticipant = errors.New("not a participant")
	ErrVersionConflict = errors.New("state version conflict")
	ErrMapNotFound     = errors.New("map not found")
	ErrEngineRejected  = errors.New("engine rejected action")
)

// EngineRejectedError carries the rule engine's reason for refusing a move.
type EngineRejectedError struct {
	Code   string
	Reason string
}

func (e *EngineRejectedError) Error() string {
	if e.Reason == "" {
		return ErrEngineRejected.Error() + ": " + e.Code
	}
	return ErrEngineRejected.Error() + ": " + e.Code + ": " + e.Reason
}

func (e *EngineRejectedError) Unwrap() error {
	return ErrEngineRejected
}

func rejected(err error) error {
	var ae *game.ActionError
	if errors.As(err, &ae) {
		return &EngineRejectedError{Code: ae.Code, Reason: ae.Message}
	}
	return err
}

type ErrorKind string

const (
	KindNone            ErrorKind = ""
	KindInvalidRequest  ErrorKind = "invalid_request"
	KindGameNotFound    ErrorKind = "game_not_found"
	KindGameNotActive   ErrorKind = "game_not_active"
	KindTurnExpired     ErrorKind = "turn_expired"
	KindNotAParticipant ErrorKind = "not_a_participant"
	KindVersionConflict ErrorKind = "version_conflict"
	KindMapNotFound     ErrorKind = "map_not_found"
	KindEngineRejected  ErrorKind = "engine_rejected"
	KindInternal        ErrorKind = "internal"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrInvalidRequest, KindInvalidRequest},
	{ErrGameNotFound, KindGameNotFound},
	{ErrGameNotActive, KindGameNotActive},
	{ErrTurnExpired, KindTurnExpired},
	{ErrNotAParticipant, KindNotAParticipant},
	{ErrVersionConflict, KindVersionConflict},
	{ErrMapNotFound, KindMapNotFound},
	{ErrEngineRejected, KindEngineRejected},
}

// KindOf classifies an error returned by Submit or Resign.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
