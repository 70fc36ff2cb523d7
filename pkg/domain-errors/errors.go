// Package domainerrors provides typed errors for business-rule failures.
//
// Services return these instead of raw errors so transport layers can map
// codes to HTTP statuses without string matching. Stores return sentinel
// errors (pkg/platform/sentinel); services translate them here.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for transport mapping and logging.
type Code string

const (
	CodeBadRequest Code = "bad_request"
	CodeValidation Code = "validation_failed"
	CodeNotFound   Code = "not_found"
	CodeForbidden  Code = "forbidden"
	CodeConflict   Code = "conflict"
	CodeInternal   Code = "internal_error"
)

// DomainError carries a machine-readable code and a human-readable message.
// The message is safe to return to API callers except for CodeInternal,
// where transport layers must omit it.
type DomainError struct {
	Code    Code
	Message string
	cause   error
}

func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.cause
}

// New creates a domain error with a code and message.
func New(code Code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is/As chains.
func Wrap(err error, code Code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or any error in its chain) is a DomainError
// with the given code.
func HasCode(err error, code Code) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias for HasCode kept for call-site readability.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from an error chain, defaulting to CodeInternal
// for untyped errors.
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the caller-safe message from an error chain. Untyped
// errors yield an empty message so internals never leak to API responses.
func MessageOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
