package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/neobrutal/internal/task"
	"github.com/roach88/neobrutal/internal/view"
)

// envelopeOf decodes one JSON envelope written to stdout, keeping data raw.
func envelopeOf(t *testing.T, out string) (string, json.RawMessage, *Failure) {
	t.Helper()
	var env struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *Failure        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &env), out)
	return env.Status, env.Data, env.Error
}

func TestEnvelope_Add(t *testing.T) {
	out, _, err := execute(t, "--db", tempDB(t), "--format", "json", "add", "Buy milk", "--due", "2027-04-15")
	require.NoError(t, err)

	status, data, failure := envelopeOf(t, out)
	assert.Equal(t, "ok", status)
	assert.Nil(t, failure)

	var card view.Card
	require.NoError(t, json.Unmarshal(data, &card))
	assert.Equal(t, "Buy milk", card.Title)
	assert.Equal(t, task.StatusTodo, card.Status)
	assert.Equal(t, view.Accent(card.ID), card.Accent)
	require.NotNil(t, card.DueDate)
	assert.Equal(t, "2027-04-15", card.DueDate.Format(task.DueLayout))
	assert.Contains(t, string(data), `"accent":`)
}

func TestEnvelope_List(t *testing.T) {
	db := tempDB(t)
	addJSON(t, db, "Buy milk")
	addJSON(t, db, "Walk dog")

	out, _, err := execute(t, "--db", db, "--format", "json", "list")
	require.NoError(t, err)

	status, data, _ := envelopeOf(t, out)
	assert.Equal(t, "ok", status)

	var cards []view.Card
	require.NoError(t, json.Unmarshal(data, &cards))
	require.Len(t, cards, 2)
	assert.Equal(t, "Walk dog", cards[0].Title)
	assert.Equal(t, "Buy milk", cards[1].Title)
}

func TestEnvelope_ListEmptyIsArray(t *testing.T) {
	out, _, err := execute(t, "--db", tempDB(t), "--format", "json", "list")
	require.NoError(t, err)

	_, data, _ := envelopeOf(t, out)
	assert.JSONEq(t, `[]`, string(data))
}

func TestEnvelope_Stats(t *testing.T) {
	db := tempDB(t)
	id := addJSON(t, db, "Buy milk")
	addJSON(t, db, "Walk dog")
	_, _, err := execute(t, "--db", db, "toggle", id)
	require.NoError(t, err)

	out, _, err := execute(t, "--db", db, "--format", "json", "stats")
	require.NoError(t, err)

	_, data, _ := envelopeOf(t, out)
	assert.JSONEq(t, `{"total":2,"active":1,"completed":1}`, string(data))
}

func TestEnvelope_RejectCarriesField(t *testing.T) {
	out, _, err := execute(t, "--db", tempDB(t), "--format", "json", "add", "x", "--status", "done")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	status, _, failure := envelopeOf(t, out)
	assert.Equal(t, "error", status)
	require.NotNil(t, failure)
	assert.Equal(t, ErrCodeValidation, failure.Code)
	assert.Equal(t, "status", failure.Field)
	assert.Contains(t, failure.Message, "invalid task")
}

func TestPrinter_TextRejectLeavesStdoutEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	p := &printer{out: buf}

	err := p.reject(ErrCodeValidation, ExitFailure, "invalid task", task.ValidationError{Field: "title", Message: "title must not be empty"})
	require.Error(t, err)
	assert.Empty(t, buf.String())
	assert.Equal(t, "invalid task: title: title must not be empty", err.Error())
}

func TestPrinter_RejectWithoutValidationError(t *testing.T) {
	buf := &bytes.Buffer{}
	p := &printer{json: true, out: buf}

	err := p.reject(ErrCodeValidation, ExitCommandError, "bad input", errors.New("boom"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, failure := envelopeOf(t, buf.String())
	require.NotNil(t, failure)
	assert.Empty(t, failure.Field)
	assert.Equal(t, "bad input: boom", failure.Message)
}

func TestPrinter_TextResult(t *testing.T) {
	buf := &bytes.Buffer{}
	p := &printer{out: buf}

	require.NoError(t, p.result(view.Stats{Total: 1}, "Total: 1  Active: 1  Completed: 0"))
	assert.Equal(t, "Total: 1  Active: 1  Completed: 0\n", buf.String())
	assert.False(t, strings.HasPrefix(buf.String(), "{"))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "x")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("session: %w", NewExitError(ExitCommandError, "x"))))
}
