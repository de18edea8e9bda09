package inmemory

import (
	"sync"

	"warfront/internal/domain/game"
)

type Snapshot struct {
	ActionTotal      uint64            `json:"action_total"`
	ActionSuccess    uint64            `json:"action_success"`
	ActionConflict   uint64            `json:"action_conflict"`
	ActionFailure    uint64            `json:"action_failure"`
	ByActionType     map[string]uint64 `json:"by_action_type"`
	TimeoutResolved  uint64            `json:"timeout_resolved"`
	TimeoutUnhandled uint64            `json:"timeout_unhandled"`
}

type Recorder struct {
	mu               sync.Mutex
	success          uint64
	conflict         uint64
	failure          uint64
	byType           map[string]uint64
	timeoutResolved  uint64
	timeoutUnhandled uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byType: map[string]uint64{},
	}
}

func (r *Recorder) RecordSuccess(actionType game.ActionType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
	r.byType[string(actionType)]++
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflict++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

// RecordTimeout counts one expired game seen by the scheduler; resolved is
// false when it was skipped or failed.
func (r *Recorder) RecordTimeout(resolved bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if resolved {
		r.timeoutResolved++
		return
	}
	r.timeoutUnhandled++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		ActionSuccess:    r.success,
		ActionConflict:   r.conflict,
		ActionFailure:    r.failure,
		ActionTotal:      r.success + r.conflict + r.failure,
		ByActionType:     make(map[string]uint64, len(r.byType)),
		TimeoutResolved:  r.timeoutResolved,
		TimeoutUnhandled: r.timeoutUnhandled,
	}
	for k, v := range r.byType {
		out.ByActionType[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
