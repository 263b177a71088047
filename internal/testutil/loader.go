package testutil

import (
	"context"

	"github.com/roach88/neobrutal/internal/task"
)

// StaticLoader returns a fixed collection from Load.
type StaticLoader []task.Task

// Load returns a copy of the fixed collection.
func (l StaticLoader) Load(context.Context) ([]task.Task, error) {
	out := make([]task.Task, len(l))
	for i, t := range l {
		out[i] = t.Clone()
	}
	return out, nil
}
