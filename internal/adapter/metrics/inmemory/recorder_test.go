package inmemory

import (
	"testing"

	"warfront/internal/domain/game"
)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordSuccess(game.ActionAttack)
	r.RecordSuccess(game.ActionEndTurn)
	r.RecordConflict()
	r.RecordFailure()
	r.RecordTimeout(true)
	r.RecordTimeout(false)

	s := r.Snapshot()
	if s.ActionTotal != 4 {
		t.Fatalf("expected total 4, got %d", s.ActionTotal)
	}
	if s.ActionSuccess != 2 {
		t.Fatalf("expected success 2, got %d", s.ActionSuccess)
	}
	if s.ActionConflict != 1 {
		t.Fatalf("expected conflict 1, got %d", s.ActionConflict)
	}
	if s.ActionFailure != 1 {
		t.Fatalf("expected failure 1, got %d", s.ActionFailure)
	}
	if s.ByActionType[string(game.ActionAttack)] != 1 {
		t.Fatalf("expected attack count 1")
	}
	if s.TimeoutResolved != 1 || s.TimeoutUnhandled != 1 {
		t.Fatalf("unexpected timeout counters: %+v", s)
	}
}

func TestRecorderSnapshotIsACopy(t *testing.T) {
	r := NewRecorder()
	r.RecordSuccess(game.ActionPlace)
	s := r.Snapshot()
	s.ByActionType["place"] = 99
	if r.Snapshot().ByActionType["place"] != 1 {
		t.Fatalf("snapshot must not alias recorder state")
	}
}
