// Package task defines the Task entity and its validation rules.
//
// Tasks are constructed and mutated only by the task store; this package
// holds the data shape, the status vocabulary and the title rules shared by
// every component that touches a task.
package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ID identifies a task. It is opaque to every component except the generator.
type ID string

// UnmarshalJSON accepts either a JSON string or a JSON number.
// Snapshots exported from the browser version of the app use numeric ids
// (Date.now() + Math.random()); the number's literal text becomes the ID.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("task id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id: expected string or number, got %s", data)
	}
	*id = ID(n.String())
	return nil
}

// Status is the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ValidStatuses lists the accepted status values in display order.
var ValidStatuses = []Status{StatusTodo, StatusInProgress, StatusCompleted, StatusCancelled}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus converts user input into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("invalid status %q, must be one of: todo, in_progress, completed, cancelled", s),
		}
	}
	return st, nil
}

// Task is the sole persisted entity.
//
// Completed always equals Status == StatusCompleted once a task has passed
// through the store; Reconcile restores that for records loaded from disk.
type Task struct {
	ID          ID         `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed"`
	Status      Status     `json:"status,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Clone returns a deep copy so callers cannot reach the store's DueDate.
func (t Task) Clone() Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

// Reconcile aligns Completed and Status.
//
// A missing status is derived from Completed (legacy records); otherwise the
// status wins and Completed follows it.
func (t *Task) Reconcile() {
	if t.Status == "" {
		if t.Completed {
			t.Status = StatusCompleted
		} else {
			t.Status = StatusTodo
		}
		return
	}
	t.Completed = t.Status == StatusCompleted
}

// SetCompleted flips completion and moves the status with it.
func (t *Task) SetCompleted(done bool) {
	t.Completed = done
	if done {
		t.Status = StatusCompleted
	} else {
		t.Status = StatusTodo
	}
}

// Fields carries the optional attributes accepted at creation.
type Fields struct {
	Description string
	DueDate     *time.Time
	Status      Status
}

// Patch is a partial update. Nil pointers mean "no change".
type Patch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	ClearDue    bool
	Status      *Status
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil && !p.ClearDue && p.Status == nil
}

// Validate checks the patch fields without applying them.
// A provided title is normalized in place.
func (p *Patch) Validate() error {
	if p.Title != nil {
		title, err := NormalizeTitle(*p.Title)
		if err != nil {
			return err
		}
		p.Title = &title
	}
	if p.Status != nil && !p.Status.Valid() {
		return ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("invalid status %q", *p.Status),
		}
	}
	return nil
}

// Apply merges a validated patch into t.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.ClearDue {
		t.DueDate = nil
	}
	if p.DueDate != nil {
		d := p.DueDate.UTC()
		t.DueDate = &d
	}
	if p.Status != nil {
		t.Status = *p.Status
		t.Completed = t.Status == StatusCompleted
	}
}
