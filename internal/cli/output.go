package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"pathportal/internal/usecase"
)

// Exit codes for portalctl.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // stored state is corrupt or a write was dropped
	ExitCommandError = 2 // bad flags, unreadable input, backend unavailable
)

// Error codes reported in CLIError.Code.
const (
	ErrCodeGeneric      = "E001"
	ErrCodeBackend      = "E002" // backend could not be opened
	ErrCodeCatalog      = "E003" // catalog could not be loaded
	ErrCodeInput        = "E004" // import file missing or malformed
	ErrCodeWriteFailed  = "E005" // output file could not be written
	ErrCodeCorruptState = "E101" // a persisted document does not decode
	ErrCodePersist      = "E102" // a persisted document could not be saved
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the code carried by an ExitError, ExitFailure for any
// other error and ExitSuccess for nil.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results as text or as a JSON envelope.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; keeps JSON on Writer clean
	Verbose   bool
}

type CLIResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  *CLIError   `json:"error,omitempty"`
}

type CLIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog writes to ErrWriter only when verbose output is on.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// fail reports an error through the formatter and returns the matching
// ExitError for cobra.
func (f *OutputFormatter) fail(exitCode int, code, message string, err error) error {
	var details interface{}
	if err != nil {
		details = err.Error()
	}
	_ = f.Error(code, message, details)
	return WrapExitError(exitCode, fmt.Sprintf("%s: %s", code, message), err)
}

// failMaintenance maps export, import and prune errors to exit codes.
func failMaintenance(f *OutputFormatter, action string, err error) error {
	switch {
	case errors.Is(err, usecase.ErrCorruptStored):
		return f.fail(ExitFailure, ErrCodeCorruptState, action+" aborted: stored state is corrupt", err)
	case errors.Is(err, usecase.ErrPersist):
		return f.fail(ExitFailure, ErrCodePersist, action+" not saved", err)
	case errors.Is(err, usecase.ErrStorage):
		return f.fail(ExitCommandError, ErrCodeBackend, action+": read stored state", err)
	}
	return f.fail(ExitFailure, ErrCodeGeneric, action+" failed", err)
}
