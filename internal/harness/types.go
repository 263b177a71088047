package harness

import (
	"github.com/roach88/neobrutal/internal/task"
	"github.com/roach88/neobrutal/internal/view"
)

// TraceStep records the observable state after one scenario step.
type TraceStep struct {
	Seq     int        `json:"seq"`
	Op      string     `json:"op"`
	Target  string     `json:"target,omitempty"`
	Error   string     `json:"error,omitempty"`
	Removed *int       `json:"removed,omitempty"`
	Saves   int        `json:"saves"`
	Stats   view.Stats `json:"stats"`
	Tasks   []string   `json:"tasks"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expect clause matched and the persisted
	// snapshot equals the final collection.
	Pass bool `json:"pass"`

	Trace  []TraceStep `json:"trace"`
	Errors []string    `json:"errors,omitempty"`

	// Final is the collection after the last step, newest first.
	Final []task.Task `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceStep{},
		Errors: []string{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// label renders a task as one trace line: "[x] title" or "[ ] title",
// followed by the status when it is not implied by the checkbox.
func label(t task.Task) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	switch t.Status {
	case task.StatusInProgress, task.StatusCancelled:
		return box + " " + t.Title + " (" + string(t.Status) + ")"
	}
	return box + " " + t.Title
}

func labels(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = label(t)
	}
	return out
}
