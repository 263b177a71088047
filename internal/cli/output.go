package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/neobrutal/internal/task"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // rejected input, failed scenarios, unsaved changes
	ExitCommandError = 2 // bad flags or arguments, unreadable config, database cannot be opened
)

// Codes carried in JSON error envelopes.
const (
	ErrCodeValidation = "E_VALIDATION"
	ErrCodeTestFailed = "E_TEST_FAILED"
)

// ExitError is a command failure together with the exit code it maps to.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError without an underlying cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code and a message to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the code of the first ExitError in err's chain, or
// ExitFailure when there is none.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Envelope is the shape of every JSON result on stdout:
//
//	{"status":"ok","data":{...}}
//	{"status":"error","error":{"code":"E_VALIDATION","field":"title","message":"..."}}
type Envelope struct {
	Status string   `json:"status"`
	Data   any      `json:"data,omitempty"`
	Error  *Failure `json:"error,omitempty"`
}

// Failure says why a command was rejected. Field names the offending task
// field when the cause is a task.ValidationError.
type Failure struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// printer writes a command's result to stdout in the selected format.
type printer struct {
	json bool
	out  io.Writer
}

func (o *RootOptions) printer(cmd *cobra.Command) *printer {
	return &printer{json: o.Format == "json", out: cmd.OutOrStdout()}
}

// result writes data as an ok envelope in JSON mode, text otherwise.
func (p *printer) result(data any, text string) error {
	if p.json {
		return p.encode(Envelope{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(p.out, text)
	return err
}

// reject returns an ExitError for err. In JSON mode it first writes an error
// envelope so scripts see a parseable answer; in text mode main prints the
// returned error.
func (p *printer) reject(code string, exitCode int, message string, err error) error {
	if p.json {
		f := &Failure{Code: code, Message: fmt.Sprintf("%s: %v", message, err)}
		var ve task.ValidationError
		if errors.As(err, &ve) {
			f.Field = ve.Field
		}
		if werr := p.encode(Envelope{Status: "error", Error: f}); werr != nil {
			return werr
		}
	}
	return WrapExitError(exitCode, message, err)
}

func (p *printer) encode(v Envelope) error {
	return json.NewEncoder(p.out).Encode(v)
}
