package task

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "Buy milk", want: "Buy milk"},
		{name: "trims", input: "  Walk dog \t\n", want: "Walk dog"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "exactly max", input: strings.Repeat("a", MaxTitleLength), want: strings.Repeat("a", MaxTitleLength)},
		{name: "over max", input: strings.Repeat("a", MaxTitleLength+1), wantErr: true},
		{name: "max multibyte", input: strings.Repeat("\u00e9", MaxTitleLength), want: strings.Repeat("\u00e9", MaxTitleLength)},
		{name: "decomposed accent normalized", input: "Cafe\u0301", want: "Caf\u00e9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTitle(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTitle_DecomposedCountsAsOneRune(t *testing.T) {
	// 200 decomposed "é" are 400 code points but 200 characters after NFC.
	title := strings.Repeat("e\u0301", MaxTitleLength)
	got, err := NormalizeTitle(title)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("\u00e9", MaxTitleLength), got)
}

func TestValidationError_Message(t *testing.T) {
	err := ValidationError{Field: "title", Message: "title must not be empty"}
	assert.Equal(t, "title: title must not be empty", err.Error())
}

func TestIsValidationError_Wrapped(t *testing.T) {
	_, err := NormalizeTitle("")
	wrapped := wrap(err)
	assert.True(t, IsValidationError(wrapped))
	assert.False(t, IsValidationError(assert.AnError))
}

func wrap(err error) error {
	return &wrapped{err}
}

type wrapped struct{ err error }

func (w *wrapped) Error() string { return "add task: " + w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }

func TestParseStatus(t *testing.T) {
	for _, s := range ValidStatuses {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseStatus("done")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestID_UnmarshalString(t *testing.T) {
	var id ID
	require.NoError(t, json.Unmarshal([]byte(`"abc-123"`), &id))
	assert.Equal(t, ID("abc-123"), id)
}

func TestID_UnmarshalLegacyNumber(t *testing.T) {
	var id ID
	require.NoError(t, json.Unmarshal([]byte(`1718000000000.4567`), &id))
	assert.Equal(t, ID("1718000000000.4567"), id)
}

func TestID_UnmarshalRejectsOtherTypes(t *testing.T) {
	var id ID
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
	assert.Error(t, json.Unmarshal([]byte(`{}`), &id))
}

func TestTask_JSONFieldNames(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	due := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	tk := Task{
		ID:          "t1",
		Title:       "Buy milk",
		Description: "2 litres",
		DueDate:     &due,
		Status:      StatusTodo,
		CreatedAt:   created,
	}

	data, err := json.Marshal(tk)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "t1",
		"title": "Buy milk",
		"description": "2 litres",
		"dueDate": "2026-02-01T00:00:00Z",
		"completed": false,
		"status": "todo",
		"createdAt": "2026-01-02T03:04:05Z"
	}`, string(data))
}

func TestTask_JSONOmitsOptionalFields(t *testing.T) {
	tk := Task{ID: "t1", Title: "x", CreatedAt: time.Unix(0, 0).UTC()}

	data, err := json.Marshal(tk)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "description")
	assert.NotContains(t, string(data), "dueDate")
	assert.NotContains(t, string(data), "status")
}

func TestTask_Clone(t *testing.T) {
	due := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	orig := Task{ID: "t1", Title: "x", DueDate: &due}

	c := orig.Clone()
	*c.DueDate = c.DueDate.Add(24 * time.Hour)

	assert.Equal(t, due, *orig.DueDate)
}

func TestTask_Reconcile(t *testing.T) {
	legacyDone := Task{Completed: true}
	legacyDone.Reconcile()
	assert.Equal(t, StatusCompleted, legacyDone.Status)

	legacyOpen := Task{}
	legacyOpen.Reconcile()
	assert.Equal(t, StatusTodo, legacyOpen.Status)
	assert.False(t, legacyOpen.Completed)

	statusWins := Task{Completed: true, Status: StatusCancelled}
	statusWins.Reconcile()
	assert.False(t, statusWins.Completed)

	done := Task{Status: StatusCompleted}
	done.Reconcile()
	assert.True(t, done.Completed)
}

func TestTask_SetCompleted(t *testing.T) {
	tk := Task{Status: StatusInProgress}

	tk.SetCompleted(true)
	assert.True(t, tk.Completed)
	assert.Equal(t, StatusCompleted, tk.Status)

	tk.SetCompleted(false)
	assert.False(t, tk.Completed)
	assert.Equal(t, StatusTodo, tk.Status)
}

func TestPatch_ValidateAndApply(t *testing.T) {
	title := "  New title "
	desc := "details"
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	status := StatusCompleted

	p := Patch{Title: &title, Description: &desc, DueDate: &due, Status: &status}
	require.NoError(t, p.Validate())
	assert.Equal(t, "New title", *p.Title)

	tk := Task{ID: "t1", Title: "Old", Status: StatusTodo}
	p.Apply(&tk)

	assert.Equal(t, "New title", tk.Title)
	assert.Equal(t, "details", tk.Description)
	assert.Equal(t, due, *tk.DueDate)
	assert.True(t, tk.Completed)
	assert.Equal(t, StatusCompleted, tk.Status)
}

func TestPatch_ValidateRejectsBadInput(t *testing.T) {
	blank := "   "
	p := Patch{Title: &blank}
	assert.True(t, IsValidationError(p.Validate()))

	bad := Status("done")
	p = Patch{Status: &bad}
	assert.True(t, IsValidationError(p.Validate()))
}

func TestPatch_ClearDue(t *testing.T) {
	due := time.Now()
	tk := Task{DueDate: &due}

	Patch{ClearDue: true}.Apply(&tk)
	assert.Nil(t, tk.DueDate)
}

func TestPatch_Empty(t *testing.T) {
	assert.True(t, Patch{}.Empty())
	desc := ""
	assert.False(t, Patch{Description: &desc}.Empty())
	assert.False(t, Patch{ClearDue: true}.Empty())
}

func TestPatch_ApplyStoresDueDateInUTC(t *testing.T) {
	due := time.Date(2027, 4, 15, 9, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
	tk := Task{ID: "t1", Title: "x", Status: StatusTodo}

	Patch{DueDate: &due}.Apply(&tk)

	require.NotNil(t, tk.DueDate)
	assert.Equal(t, time.UTC, tk.DueDate.Location())
	assert.Equal(t, time.Date(2027, 4, 15, 7, 30, 0, 0, time.UTC), *tk.DueDate)
}
