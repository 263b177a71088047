package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/neobrutal/internal/task"
	"github.com/roach88/neobrutal/internal/view"
)

// parseDue accepts an RFC 3339 timestamp or a bare date, read as UTC midnight.
func parseDue(s string) (time.Time, error) {
	t, err := task.ParseDue(s)
	if err != nil {
		return time.Time{}, task.ValidationError{Field: "due", Message: err.Error()}
	}
	return t, nil
}

// formatTask renders one task as a single line:
//
//	[x] 0192f0c4-...  Buy milk  (completed, due 2026-11-01)
func formatTask(t task.Task) string {
	var b strings.Builder
	if t.Completed {
		b.WriteString("[x] ")
	} else {
		b.WriteString("[ ] ")
	}
	b.WriteString(string(t.ID))
	b.WriteString("  ")
	b.WriteString(t.Title)

	var notes []string
	if t.Status != task.StatusTodo && t.Status != task.StatusCompleted {
		notes = append(notes, string(t.Status))
	}
	if t.DueDate != nil {
		notes = append(notes, "due "+t.DueDate.Format(task.DueLayout))
	}
	if len(notes) > 0 {
		b.WriteString("  (" + strings.Join(notes, ", ") + ")")
	}
	if t.Description != "" {
		b.WriteString("\n    " + t.Description)
	}
	return b.String()
}

// formatList renders tasks one per line followed by the stats footer.
func formatList(tasks []task.Task, st view.Stats) string {
	if len(tasks) == 0 {
		return "No tasks."
	}
	lines := make([]string, 0, len(tasks)+2)
	for _, t := range tasks {
		lines = append(lines, formatTask(t))
	}
	lines = append(lines, "", formatStats(st))
	return strings.Join(lines, "\n")
}

func formatStats(st view.Stats) string {
	return fmt.Sprintf("Total: %d  Active: %d  Completed: %d", st.Total, st.Active, st.Completed)
}
