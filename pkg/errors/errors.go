// Package errors provides structured error types for the bingo tools.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the generate and pdf commands
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or configuration validation failures
//   - *_NOT_FOUND / NO_*: Required files or inputs are missing
//   - RENDER_FAILED: Drawing or encoding a card failed
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "card count must be positive, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "square pool %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Missing input errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeNoCards      Code = "NO_CARDS"

	// Processing errors
	ErrCodeRender  Code = "RENDER_FAILED"
	ErrCodePartial Code = "PARTIAL_FAILURE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) && e.Code == code {
		return true
	}
	var p *PartialError
	return errors.As(err, &p) && p.Code() == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	if p, ok := err.(*PartialError); ok {
		return p.Code()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var p *PartialError
	if errors.As(err, &p) {
		return p.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message (and cause) without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// PartialError reports items that were skipped while the rest of a batch
// completed. Items and Causes are parallel slices.
type PartialError struct {
	Total  int
	Items  []string
	Causes []error
}

// Add records a failed item.
func (e *PartialError) Add(item string, cause error) {
	e.Items = append(e.Items, item)
	e.Causes = append(e.Causes, cause)
}

// Len returns the number of failed items.
func (e *PartialError) Len() int {
	return len(e.Items)
}

// Error implements the error interface.
func (e *PartialError) Error() string {
	if len(e.Items) == 0 {
		return "no failures"
	}
	return fmt.Sprintf("%d of %d items failed: %s", len(e.Items), e.Total, strings.Join(e.Items, ", "))
}

// Unwrap exposes every recorded cause to errors.Is/As.
func (e *PartialError) Unwrap() []error {
	return e.Causes
}

// Code returns the error code for this error type.
func (e *PartialError) Code() Code {
	return ErrCodePartial
}

// OrNil returns nil when nothing failed, so callers can return it directly.
func (e *PartialError) OrNil() error {
	if e == nil || len(e.Items) == 0 {
		return nil
	}
	return e
}
