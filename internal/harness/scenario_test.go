package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/neobrutal/internal/view"
)

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "buy_milk_walk_dog.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "buy_milk_walk_dog", s.Name)
	require.Len(t, s.Steps, 5)
	assert.Equal(t, Step{Op: OpAdd, Title: "Buy milk"}, s.Steps[0])
	assert.Equal(t, "Buy milk", s.Steps[2].Ref)
	require.NotNil(t, s.Steps[2].Expect)
	assert.Equal(t, &view.Stats{Total: 2, Active: 1, Completed: 1}, s.Steps[2].Expect.Stats)
	assert.Equal(t, 1, *s.Steps[3].Expect.Removed)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\nsteps:\n  - op: clear_completed\n"), 0644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "x", s.Name)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "name: x\nstep: []\n", "failed to parse YAML"},
		{"missing name", "steps:\n  - op: add\n    title: a\n", "name is required"},
		{"no steps", "name: x\nsteps: []\n", "steps list is required"},
		{"missing op", "name: x\nsteps:\n  - title: a\n", "op is required"},
		{"unknown op", "name: x\nsteps:\n  - op: archive\n", `unknown op "archive"`},
		{"toggle without ref", "name: x\nsteps:\n  - op: toggle\n", "ref is required for toggle"},
		{"add with ref", "name: x\nsteps:\n  - op: add\n    ref: a\n", "add takes title"},
		{"bad due", "name: x\nsteps:\n  - op: add\n    title: a\n    fields:\n      due: tomorrow\n", "fields.due"},
		{"due and clear", "name: x\nsteps:\n  - op: update\n    ref: a\n    fields:\n      due: \"2026-01-01T00:00:00Z\"\n      clear_due: true\n", "mutually exclusive"},
		{"removed on add", "name: x\nsteps:\n  - op: add\n    title: a\n    expect:\n      removed: 1\n", "removed only applies"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFields_Patch(t *testing.T) {
	title := "t"
	p := Fields{Title: &title, ClearDue: true, Status: "cancelled"}.patch()

	assert.Equal(t, &title, p.Title)
	assert.True(t, p.ClearDue)
	require.NotNil(t, p.Status)
	assert.Equal(t, "cancelled", string(*p.Status))
	assert.Nil(t, p.DueDate)
}
