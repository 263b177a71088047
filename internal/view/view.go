// Package view derives what a rendering layer displays from a task snapshot.
//
// Everything here is a pure function of its arguments: no stored state, no
// side effects, and input slices are never modified.
package view

import (
	"fmt"
	"hash/fnv"

	"github.com/roach88/neobrutal/internal/task"
)

// Filter selects which tasks a view shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ValidFilters lists the accepted filter modes.
var ValidFilters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ParseFilter converts user input into a Filter. The empty string means all.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return FilterAll, nil
	}
	for _, f := range ValidFilters {
		if Filter(s) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid filter %q: must be one of %v", s, ValidFilters)
}

// Filtered returns the tasks matching mode in their original relative order.
// FilterAll (and any unrecognized mode) returns the snapshot unchanged.
func Filtered(snapshot []task.Task, mode Filter) []task.Task {
	switch mode {
	case FilterActive:
		return keep(snapshot, func(t task.Task) bool { return !t.Completed })
	case FilterCompleted:
		return keep(snapshot, func(t task.Task) bool { return t.Completed })
	default:
		return snapshot
	}
}

func keep(snapshot []task.Task, pred func(task.Task) bool) []task.Task {
	out := make([]task.Task, 0, len(snapshot))
	for _, t := range snapshot {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

// Stats are the aggregate counters. Active + Completed == Total always.
type Stats struct {
	Total     int `json:"total" yaml:"total"`
	Active    int `json:"active" yaml:"active"`
	Completed int `json:"completed" yaml:"completed"`
}

// Compute counts the snapshot.
func Compute(snapshot []task.Task) Stats {
	st := Stats{Total: len(snapshot)}
	for _, t := range snapshot {
		if t.Completed {
			st.Completed++
		}
	}
	st.Active = st.Total - st.Completed
	return st
}

// Palette is the brutalism card palette, in a fixed order.
var Palette = []string{
	"#000000", // black
	"#ffffff", // white
	"#ffff00", // yellow
	"#ff69b4", // pink
	"#00ffff", // cyan
	"#32ff32", // lime
	"#ff4500", // orange
	"#8a2be2", // purple
	"#ff0000", // red
	"#0066ff", // blue
}

// Accent picks a card color for id. The same id always gets the same color.
func Accent(id task.ID) string {
	h := fnv.New32a()
	h.Write([]byte(id))
	return Palette[h.Sum32()%uint32(len(Palette))]
}

// Card is a task decorated for display.
type Card struct {
	task.Task
	Accent string `json:"accent"`
}

// Cards decorates each task with its accent color.
func Cards(tasks []task.Task) []Card {
	out := make([]Card, len(tasks))
	for i, t := range tasks {
		out[i] = Card{Task: t, Accent: Accent(t.ID)}
	}
	return out
}
