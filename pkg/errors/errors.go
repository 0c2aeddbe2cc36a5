// Package errors provides structured error types for movey.
//
// Every failure the resolution pipeline can report carries a machine-readable
// [Code] and a user-facing message:
//   - MANIFEST_NOT_FOUND: Move.toml is missing from the package root
//   - BAD_FORMAT: Move.toml does not match the expected schema
//   - UNSUPPORTED_RESOLVER: the declared resolver is not "movey"
//   - UNEXPECTED: any registry transport or response failure
//   - WRITE_FAILED: Move.lock could not be written
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnsupportedResolver, "The CLI only resolve Movey dependencies.")
//	if errors.Is(err, errors.ErrCodeUnsupportedResolver) {
//	    // ...
//	}
//
//	// Wrap existing errors; the cause stays on the chain for errors.As.
//	err := errors.Wrap(errors.ErrCodeUnexpected, origErr, errors.UnexpectedMessage)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Manifest errors
	ErrCodeManifestNotFound    Code = "MANIFEST_NOT_FOUND"
	ErrCodeBadFormat           Code = "BAD_FORMAT"
	ErrCodeUnsupportedResolver Code = "UNSUPPORTED_RESOLVER"

	// Registry errors
	ErrCodeUnexpected Code = "UNEXPECTED"

	// Lock file errors
	ErrCodeWrite    Code = "WRITE_FAILED"
	ErrCodeLockRead Code = "LOCK_READ_FAILED"

	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
)

// UnexpectedMessage is the only message shown for registry failures.
// Transport and decode failures share it so nothing about the registry
// internals leaks to the user.
const UnexpectedMessage = "An unexpected error occurred. Please try again later"

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Unexpected wraps cause as an UNEXPECTED error with the generic message.
func Unexpected(cause error) *Error {
	return Wrap(ErrCodeUnexpected, cause, UnexpectedMessage)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for the outermost *Error and compares its code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
