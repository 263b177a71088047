package harness

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/roach88/neobrutal/internal/ident"
	"github.com/roach88/neobrutal/internal/kv"
	"github.com/roach88/neobrutal/internal/persist"
	"github.com/roach88/neobrutal/internal/task"
	"github.com/roach88/neobrutal/internal/taskstore"
	"github.com/roach88/neobrutal/internal/testutil"
	"github.com/roach88/neobrutal/internal/view"
)

// Harness runs one scenario against a fresh store.
type Harness struct {
	backend *kv.Memory
	adapter *persist.Adapter
	store   *taskstore.Store
	refs    map[string]task.ID
	result  *Result
}

// Run executes a scenario and returns its trace.
//
// An error is returned only when the scenario cannot be run at all. Failed
// expectations are reported through Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	ctx := context.Background()
	h, err := newHarness(ctx)
	if err != nil {
		return nil, err
	}

	for i, step := range scenario.Steps {
		h.runStep(i+1, step)
	}

	h.result.Final = h.store.Snapshot()
	if err := h.verifyPersisted(ctx); err != nil {
		return nil, err
	}

	slog.Debug("scenario finished", "name", scenario.Name, "steps", len(scenario.Steps), "pass", h.result.Pass)
	return h.result, nil
}

func newHarness(ctx context.Context) (*Harness, error) {
	backend := kv.NewMemory()
	adapter := persist.NewAdapter(backend, "")
	store, err := taskstore.Open(ctx, adapter, persist.NewDirect(adapter),
		taskstore.WithGenerator(ident.NewSequenceGenerator("task")),
		taskstore.WithClock(testutil.NewStepClock(testutil.DefaultEpoch, 0).Now),
	)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &Harness{
		backend: backend,
		adapter: adapter,
		store:   store,
		refs:    make(map[string]task.ID),
		result:  NewResult(),
	}, nil
}

func (h *Harness) runStep(seq int, step Step) {
	ts := TraceStep{Seq: seq, Op: step.Op, Target: step.Title + step.Ref}

	var err error
	switch step.Op {
	case OpAdd:
		var t task.Task
		t, err = h.store.Add(step.Title, step.Fields.fields())
		if err == nil {
			h.refs[t.Title] = t.ID
		}
	case OpToggle:
		h.store.Toggle(h.resolve(step.Ref))
	case OpUpdate:
		id := h.resolve(step.Ref)
		patch := step.Fields.patch()
		err = h.store.Update(id, patch)
		if err == nil && patch.Title != nil {
			if updated, ok := h.store.Get(id); ok {
				delete(h.refs, step.Ref)
				h.refs[updated.Title] = id
			}
		}
	case OpDelete:
		id := h.resolve(step.Ref)
		h.store.Delete(id)
		delete(h.refs, step.Ref)
	case OpClearCompleted:
		removed := h.store.ClearCompleted()
		ts.Removed = &removed
	}

	if err != nil {
		ts.Error = err.Error()
	}
	snapshot := h.store.Snapshot()
	ts.Saves = h.backend.Puts()
	ts.Stats = view.Compute(snapshot)
	ts.Tasks = labels(snapshot)
	h.result.Trace = append(h.result.Trace, ts)

	h.check(seq, step, ts, err, snapshot)
}

// resolve maps a title to the id of the task that currently carries it.
// Unknown titles map to an id no generator produces.
func (h *Harness) resolve(ref string) task.ID {
	if id, ok := h.refs[ref]; ok {
		return id
	}
	return task.ID("unknown:" + ref)
}

func (h *Harness) check(seq int, step Step, ts TraceStep, err error, snapshot []task.Task) {
	exp := step.Expect
	if exp == nil {
		if err != nil {
			h.result.AddError(fmt.Sprintf("step %d (%s): unexpected error: %v", seq, step.Op, err))
		}
		return
	}

	switch {
	case exp.Error == "" && err != nil:
		h.result.AddError(fmt.Sprintf("step %d (%s): unexpected error: %v", seq, step.Op, err))
	case exp.Error != "" && err == nil:
		h.result.AddError(fmt.Sprintf("step %d (%s): expected error containing %q, got success", seq, step.Op, exp.Error))
	case exp.Error != "" && !strings.Contains(err.Error(), exp.Error):
		h.result.AddError(fmt.Sprintf("step %d (%s): expected error containing %q, got %q", seq, step.Op, exp.Error, err.Error()))
	}

	if exp.Stats != nil && *exp.Stats != ts.Stats {
		h.result.AddError(fmt.Sprintf("step %d (%s): stats = %+v, want %+v", seq, step.Op, ts.Stats, *exp.Stats))
	}
	if exp.Removed != nil && (ts.Removed == nil || *ts.Removed != *exp.Removed) {
		got := -1
		if ts.Removed != nil {
			got = *ts.Removed
		}
		h.result.AddError(fmt.Sprintf("step %d (%s): removed = %d, want %d", seq, step.Op, got, *exp.Removed))
	}

	h.checkTitles(seq, step.Op, "tasks", exp.Tasks, snapshot)
	h.checkTitles(seq, step.Op, "active", exp.Active, view.Filtered(snapshot, view.FilterActive))
	h.checkTitles(seq, step.Op, "completed", exp.Completed, view.Filtered(snapshot, view.FilterCompleted))
}

func (h *Harness) checkTitles(seq int, op, what string, want []string, got []task.Task) {
	if want == nil {
		return
	}
	titles := make([]string, len(got))
	for i, t := range got {
		titles[i] = t.Title
	}
	if !reflect.DeepEqual(titles, want) {
		h.result.AddError(fmt.Sprintf("step %d (%s): %s = %q, want %q", seq, op, what, titles, want))
	}
}

// verifyPersisted reloads the stored snapshot and compares it with the
// in-memory collection.
func (h *Harness) verifyPersisted(ctx context.Context) error {
	persisted, err := h.adapter.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload snapshot: %w", err)
	}
	if h.backend.Puts() == 0 {
		return nil
	}
	if !reflect.DeepEqual(persisted, h.result.Final) {
		h.result.AddError(fmt.Sprintf("persisted snapshot has %d tasks, store has %d, or contents differ",
			len(persisted), len(h.result.Final)))
	}
	return nil
}
