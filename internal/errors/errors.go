// Package errors provides centralized error definitions and error handling
// utilities for kanban. It defines sentinel errors, the operation error that
// every board mutation resolves to on failure, and helpers that turn an error
// into the single message shown to the user.
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewOperationError("create", "could not create task", cause)
//	err := errors.NewValidationError("title", "title is required")
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrOperationFailed) { ... }
//	if errors.IsValidation(err) { ... }
//	msg := errors.UserMessage(err)
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrOperationFailed is the uniform signal for a remote call that could not
	// be completed: transport failure, non-success status or malformed payload.
	ErrOperationFailed = New("operation failed")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrTaskNotFound indicates that a task id is not known.
	ErrTaskNotFound = New("task not found")
	// ErrCanceled indicates that the user declined an action.
	ErrCanceled = New("operation canceled")
)

// -----------------------------------------------------------------------------
// OperationError
// -----------------------------------------------------------------------------

// OperationError is returned by every board operation that fails. Message is
// the operation-specific text meant for the user; Err is the underlying cause.
type OperationError struct {
	Op      string
	Message string
	Err     error
}

// NewOperationError creates an OperationError.
func NewOperationError(op, message string, err error) *OperationError {
	return &OperationError{Op: op, Message: message, Err: err}
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// -----------------------------------------------------------------------------
// ValidationError
// -----------------------------------------------------------------------------

// ValidationError reports input rejected before any remote call was made.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is makes every ValidationError match ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// IsValidation reports whether err was caused by rejected input.
func IsValidation(err error) bool {
	return Is(err, ErrInvalidInput)
}

// IsNotFound reports whether err refers to an unknown task.
func IsNotFound(err error) bool {
	return Is(err, ErrTaskNotFound)
}

// UserMessage returns the text to show a user for err. Operation and
// validation errors carry their own message; anything else falls back to
// err.Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var opErr *OperationError
	if As(err, &opErr) && opErr.Message != "" {
		return opErr.Message
	}
	var valErr *ValidationError
	if As(err, &valErr) {
		return valErr.Message
	}
	return err.Error()
}
