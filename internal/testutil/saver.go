package testutil

import (
	"sync"

	"github.com/roach88/neobrutal/internal/task"
)

// RecordingSaver captures every snapshot submitted by a task store.
//
// It implements taskstore.Saver synchronously, which makes assertions about
// "exactly one save per mutation" straightforward.
type RecordingSaver struct {
	mu        sync.Mutex
	snapshots [][]task.Task
}

// NewRecordingSaver creates an empty recorder.
func NewRecordingSaver() *RecordingSaver {
	return &RecordingSaver{}
}

// Submit records a copy of tasks.
func (r *RecordingSaver) Submit(tasks []task.Task) {
	cp := make([]task.Task, len(tasks))
	for i, t := range tasks {
		cp[i] = t.Clone()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, cp)
}

// Count returns the number of snapshots submitted.
func (r *RecordingSaver) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

// Last returns the most recent snapshot, or nil if none.
func (r *RecordingSaver) Last() []task.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return nil
	}
	return r.snapshots[len(r.snapshots)-1]
}
