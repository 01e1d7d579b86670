// Package errcode provides the structured error type shared by every olivia
// package.
//
// Error codes are machine-readable and stable; message text is for humans
// and may change freely.
//
//	err := errcode.New(errcode.MalformedInput, "line %d: expected tab-separated fields", n)
//	if errcode.Is(err, errcode.MalformedInput) {
//	    // handle
//	}
package errcode

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error kind.
type Code string

// The six error kinds of the network engine.
const (
	// NotFound means a package name is not present in the model.
	NotFound Code = "NOT_FOUND"
	// MalformedInput means an ingest source could not be parsed.
	MalformedInput Code = "MALFORMED_INPUT"
	// DomainMismatch means arithmetic was attempted between MetricStats
	// over different package universes.
	DomainMismatch Code = "DOMAIN_MISMATCH"
	// UnsupportedMetric means the analytic immunization-delta algorithm
	// was asked for a metric other than Reach.
	UnsupportedMetric Code = "UNSUPPORTED_METRIC"
	// CorruptedModel means a serialized model has a bad magic, version,
	// or checksum.
	CorruptedModel Code = "CORRUPTED_MODEL"
	// InvariantViolation means an internal invariant was broken; never
	// swallowed, never retried.
	InvariantViolation Code = "INVARIANT_VIOLATION"
)

// Error is a structured error carrying a Code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap supports errors.Is/As against the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the first *Error in err's chain carries the given code.
// An *Error further down the chain (for example the Cause of another *Error)
// is not examined.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the code from err, or "" if err is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for *Error, or
// err.Error() otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
