package domerr

import (
	"errors"
	"fmt"
)

// Code classifies a domain error so handlers can map it to an HTTP status
// without string matching.
type Code string

const (
	CodeValidation           Code = "validation_error"
	CodeInvalidTransition    Code = "invalid_transition"
	CodeAuthenticationFailed Code = "authentication_failed"
	CodeInvalidCredential    Code = "invalid_credential"
	CodeNotFound             Code = "not_found"
	CodeIntegrityFailure     Code = "integrity_failure"
	CodeInternal             Code = "internal_error"
)

// Error is a coded domain error. Core services return these; the HTTP layer
// translates them at the boundary.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error with a plain message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause so the original error survives %w chains.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// CodeOf extracts the code from err, or CodeInternal when err is not a
// domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
