// Package taskstore owns the authoritative, ordered task collection.
//
// The Store is the only component that constructs or mutates tasks and the
// only writer of persisted state. Every successful mutation submits exactly
// one full snapshot to the injected Saver, in program order.
//
// Unknown ids are not errors: Delete, Toggle and Update on an id that is not
// present return normally and change nothing.
package taskstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/neobrutal/internal/ident"
	"github.com/roach88/neobrutal/internal/task"
	"github.com/roach88/neobrutal/internal/view"
)

// Loader seeds the store at startup. *persist.Adapter satisfies it.
type Loader interface {
	Load(ctx context.Context) ([]task.Task, error)
}

// Saver receives a full snapshot after each mutation.
// *persist.Writer and *persist.Direct satisfy it.
type Saver interface {
	Submit(tasks []task.Task)
}

// Actions is the capability set a rendering layer drives.
// Both the CLI and the HTTP API depend on this interface, not on *Store.
type Actions interface {
	Add(title string, fields task.Fields) (task.Task, error)
	Delete(id task.ID)
	Toggle(id task.ID)
	Update(id task.ID, patch task.Patch) error
	ClearCompleted() int
	Get(id task.ID) (task.Task, bool)
	Filtered(mode view.Filter) []task.Task
	Stats() view.Stats
}

// Option configures a Store.
type Option func(*Store)

// WithGenerator overrides the identifier generator (default UUIDv7).
func WithGenerator(g ident.Generator) Option {
	return func(s *Store) { s.ids = g }
}

// WithClock overrides the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store holds tasks newest-first.
//
// Operations run to completion under a mutex, so concurrent callers (the HTTP
// API) observe the same one-at-a-time semantics as a single-threaded UI, and
// snapshots reach the Saver in the order the mutations happened.
type Store struct {
	mu    sync.Mutex
	tasks []task.Task
	index map[task.ID]int
	used  map[task.ID]bool // every id held during this store's lifetime

	saver Saver
	ids   ident.Generator
	now   func() time.Time
}

var _ Actions = (*Store)(nil)

// Open loads the persisted collection once and returns a ready store.
// When the loader returns an id more than once, the first occurrence wins.
func Open(ctx context.Context, loader Loader, saver Saver, opts ...Option) (*Store, error) {
	tasks, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("open task store: %w", err)
	}

	s := &Store{
		saver: saver,
		ids:   ident.UUIDv7Generator{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.tasks = make([]task.Task, 0, len(tasks))
	s.used = make(map[task.ID]bool, len(tasks))
	for _, t := range tasks {
		if s.used[t.ID] {
			slog.Warn("skipping duplicate task id from loader", "id", t.ID)
			continue
		}
		s.tasks = append(s.tasks, t.Clone())
		s.used[t.ID] = true
	}
	s.reindex()

	slog.Debug("task store opened", "tasks", len(s.tasks))
	return s, nil
}

// Add creates a task and places it first.
// Returns a task.ValidationError, leaving the collection untouched, when the
// trimmed title is empty or longer than task.MaxTitleLength characters, or
// when fields carries an unknown status.
func (s *Store) Add(title string, fields task.Fields) (task.Task, error) {
	normalized, err := task.NormalizeTitle(title)
	if err != nil {
		return task.Task{}, err
	}
	if fields.Status != "" && !fields.Status.Valid() {
		return task.Task{}, task.ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("invalid status %q", fields.Status),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := task.Task{
		ID:          s.freshID(),
		Title:       normalized,
		Description: fields.Description,
		Status:      fields.Status,
		CreatedAt:   s.now().UTC(),
	}
	if fields.DueDate != nil {
		due := fields.DueDate.UTC()
		t.DueDate = &due
	}
	t.Reconcile()

	s.tasks = append([]task.Task{t}, s.tasks...)
	s.reindex()
	s.persist("add", t.ID)

	return t.Clone(), nil
}

// Delete removes the task with id. Unknown ids are a no-op and do not save.
func (s *Store) Delete(id task.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		slog.Debug("delete: task not found", "id", id)
		return
	}

	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.reindex()
	s.persist("delete", id)
}

// Toggle flips completion of the task with id. Unknown ids are a no-op.
func (s *Store) Toggle(id task.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		slog.Debug("toggle: task not found", "id", id)
		return
	}

	s.tasks[i].SetCompleted(!s.tasks[i].Completed)
	s.persist("toggle", id)
}

// Update merges patch into the task with id.
//
// The patch is validated first, so an invalid title is reported even for an
// unknown id. A valid patch for an unknown id is a no-op.
func (s *Store) Update(id task.ID, patch task.Patch) error {
	if err := patch.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		slog.Debug("update: task not found", "id", id)
		return nil
	}

	patch.Apply(&s.tasks[i])
	s.persist("update", id)
	return nil
}

// ClearCompleted removes every completed task in one pass, keeping the
// relative order of the rest, and saves once even when nothing was removed.
func (s *Store) ClearCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)

	s.tasks = kept
	s.reindex()
	s.persist("clear_completed", "")

	return removed
}

// Snapshot returns a copy of the collection, newest first.
// The caller owns the returned slice.
func (s *Store) Snapshot() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Get returns a copy of the task with id.
func (s *Store) Get(id task.ID) (task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return task.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Filtered projects the current snapshot through mode.
func (s *Store) Filtered(mode view.Filter) []task.Task {
	return view.Filtered(s.Snapshot(), mode)
}

// Stats returns counters for the current snapshot.
func (s *Store) Stats() view.Stats {
	return view.Compute(s.Snapshot())
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *Store) snapshotLocked() []task.Task {
	out := make([]task.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// persist hands the current snapshot to the saver. Called with mu held so
// snapshots are submitted in mutation order.
func (s *Store) persist(op string, id task.ID) {
	slog.Debug("task store mutated", "op", op, "id", id, "tasks", len(s.tasks))
	s.saver.Submit(s.snapshotLocked())
}

// freshID draws ids until one has never been held by this store. A clash
// means the loaded snapshot came from another generator.
func (s *Store) freshID() task.ID {
	for {
		id := task.ID(s.ids.NewID())
		if id != "" && !s.used[id] {
			s.used[id] = true
			return id
		}
		slog.Warn("identifier generator returned an id already in use", "id", id)
	}
}

func (s *Store) reindex() {
	s.index = make(map[task.ID]int, len(s.tasks))
	for i, t := range s.tasks {
		s.index[t.ID] = i
	}
}
