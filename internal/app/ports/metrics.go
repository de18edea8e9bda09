package ports

import "warfront/internal/domain/game"

type ActionMetrics interface {
	RecordSuccess(actionType game.ActionType)
	RecordConflict()
	RecordFailure()
	RecordTimeout(resolved bool)
}
