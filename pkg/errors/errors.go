// Package errors defines the coded errors shared by meldgrid's engines, store,
// CLI and HTTP API.
//
// Every failure that crosses a package boundary carries a [Code]. Outer layers
// switch on the code: the CLI picks an exit status and the HTTP API a response
// status. Absence and collision inside the engines are not errors at all;
// they are reported through boolean results.
//
// Codes group by prefix:
//   - INVALID_*: rejected input (layout, document, config, name)
//   - NOT_FOUND: unknown item, node or stored document
//   - PLACEMENT_EXHAUSTED, COLLISION: geometry outcomes
//   - STORE_UNAVAILABLE: a backend could not be reached
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// Example:
//
//	err := errors.New(errors.ErrCodeInvalidLayout, "item size must be positive, got %dx%d", w, h)
//	if errors.GetCode(err).Invalid() {
//	    // report bad input
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidLayout Code = "INVALID_LAYOUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidName   Code = "INVALID_NAME"

	ErrCodeNotFound Code = "NOT_FOUND"

	ErrCodePlacementExhausted Code = "PLACEMENT_EXHAUSTED"
	ErrCodeCollision          Code = "COLLISION"

	ErrCodeStoreUnavailable Code = "STORE_UNAVAILABLE"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Invalid reports whether c is one of the INVALID_* input codes.
func (c Code) Invalid() bool { return strings.HasPrefix(string(c), "INVALID_") }

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error formats as "CODE: message" followed by ": cause" when there is one.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with an underlying cause, kept for errors.Is and errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the first *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the first *Error in err's chain without
// its code or cause, or err.Error() for uncoded errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
