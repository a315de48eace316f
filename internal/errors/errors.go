// Package errors provides structured error types for omni engine
// operations.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error codes for engine operations.
const (
	// Chain errors
	CodeChainEmpty      = "CHAIN_001" // No steps after parsing
	CodeChainBadCommand = "CHAIN_002" // Command failed to tokenize

	// Execution errors
	CodeExecSpawnFailed = "EXEC_001" // Process could not be started
	CodeExecFailed      = "EXEC_002" // Process exited non-zero

	// Pipeline errors
	CodePipeSourceFailed = "PIPE_001" // Source command failed
	CodePipeInvalidJSON  = "PIPE_002" // Source output not valid JSON
	CodePipeBadSelect    = "PIPE_003" // Malformed select path
	CodePipeBadQuery     = "PIPE_004" // Malformed jq expression

	// Flow errors
	CodeFlowNotFound = "FLOW_001" // Named flow does not exist
	CodeFlowInvalid  = "FLOW_002" // Flow failed validation

	// Config errors
	CodeConfigInvalid = "CONFIG_001" // Config failed validation
)

// EngineError is the structured error type for engine operations.
type EngineError struct {
	Code    string         `json:"code"`              // Error code (e.g., "PIPE_002")
	Message string         `json:"message"`           // Human-readable message
	Details map[string]any `json:"details,omitempty"` // Context (command, flow, etc.)
	Cause   error          `json:"-"`                 // Wrapped error (not serialized)
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error.
func (e *EngineError) WithDetail(key string, value any) *EngineError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause wraps an underlying error.
func (e *EngineError) WithCause(err error) *EngineError {
	e.Cause = err
	return e
}

// MarshalJSON implements json.Marshaler with the cause error message
// included.
func (e *EngineError) MarshalJSON() ([]byte, error) {
	type alias EngineError
	aux := struct {
		*alias
		CauseMsg string `json:"cause,omitempty"`
	}{
		alias: (*alias)(e),
	}
	if e.Cause != nil {
		aux.CauseMsg = e.Cause.Error()
	}
	return json.Marshal(aux)
}

// New creates a new EngineError.
func New(code, message string) *EngineError {
	return &EngineError{Code: code, Message: message}
}

// Newf creates a new EngineError with a formatted message.
func Newf(code, format string, args ...any) *EngineError {
	return &EngineError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new EngineError wrapping a cause.
func Wrap(code, message string, cause error) *EngineError {
	return &EngineError{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the engine error code from err, or empty when err is not
// an EngineError.
func CodeOf(err error) string {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// Is reports whether err carries the given engine error code.
func Is(err error, code string) bool {
	return CodeOf(err) == code
}
