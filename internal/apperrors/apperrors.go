// Package apperrors defines the coded error taxonomy shared by all bot
// components. Handlers switch on the code of a failure to decide whether
// to re-prompt the user, reset the conversation, or abort startup.
package apperrors

import (
	"errors"
	"fmt"
)

// Error codes for the application.
const (
	CodeUnknown        = "UNKNOWN"
	CodeStorage        = "STORAGE"
	CodeValidation     = "VALIDATION"
	CodeConfig         = "CONFIG"
	CodeMissingContext = "MISSING_CONTEXT"
	CodeAssistant      = "ASSISTANT"
)

// ApplicationError is the interface implemented by all coded errors.
type ApplicationError interface {
	error
	Code() string
	Unwrap() error
}

// Error is the base implementation backing every coded error.
type Error struct {
	code    string
	message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}

	return e.message
}

func (e *Error) Code() string {
	return e.code
}

func (e *Error) Unwrap() error {
	return e.err
}

// Code returns the code of err if it is (or wraps) an ApplicationError,
// or CodeUnknown if it doesn't.
func Code(err error) string {
	var appErr ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}

	return CodeUnknown
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return Code(err) == code
}

// NewStorageError wraps a task-store failure. Callers surface a generic
// failure notice and reset the conversation to idle.
func NewStorageError(message string, cause error) error {
	return &Error{code: CodeStorage, message: message, err: cause}
}

// NewValidationError marks malformed user input. Always recoverable: the
// user is re-prompted and the dialogue state is kept.
func NewValidationError(message string, cause error) error {
	return &Error{code: CodeValidation, message: message, err: cause}
}

// NewConfigError marks an invalid or incomplete configuration. Fatal at
// startup, before any traffic is served.
func NewConfigError(message string, cause error) error {
	return &Error{code: CodeConfig, message: message, err: cause}
}

// NewMissingContextError marks an absent draft field that should have been
// populated by an earlier dialogue step. The dialogue is aborted back to idle.
func NewMissingContextError(message string) error {
	return &Error{code: CodeMissingContext, message: message}
}

// NewAssistantError wraps a failure of the text assistant backend.
func NewAssistantError(message string, cause error) error {
	return &Error{code: CodeAssistant, message: message, err: cause}
}
