package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DueLayout is the date-only form accepted for due dates, as produced by a
// date picker.
const DueLayout = "2006-01-02"

// ParseDue reads a due date given as RFC 3339 or as YYYY-MM-DD. A bare date
// means midnight UTC. The result is always in UTC.
func ParseDue(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(DueLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q: use YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

// DueDate is a due date as it arrives in JSON. It decodes from either form
// ParseDue accepts and encodes as RFC 3339.
type DueDate struct {
	time.Time
}

func (d *DueDate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("due date: %w", err)
	}
	t, err := ParseDue(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// TimePtr returns the date as a *time.Time; nil stays nil.
func (d *DueDate) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
