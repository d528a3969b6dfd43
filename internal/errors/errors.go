package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig  = "CONFIG"
	ErrNetwork = "NETWORK" // request could not complete (includes timeouts)
	ErrHTTP    = "HTTP"    // backend answered with a non-2xx status
	ErrDecode  = "DECODE"  // payload is not valid per the expected shape
	ErrMetric  = "METRIC"  // a single metric failed upstream or is malformed
	ErrServer  = "SERVER"
)

// Kind is the user-facing failure category of a fetch cycle.
type Kind string

const (
	KindNetwork       Kind = "network"
	KindHTTPStatus    Kind = "http_status"
	KindDecode        Kind = "decode"
	KindPartialMetric Kind = "partial_metric"
	KindUnknown       Kind = "unknown"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrNetwork code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrNetwork,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var siErr *Error
	if errors.As(err, &siErr) {
		return siErr.Code == code
	}
	return false
}

// KindOf maps an error to its failure category.
// Deadline and cancellation errors count as network failures.
func KindOf(err error) Kind {
	var siErr *Error
	if errors.As(err, &siErr) {
		switch siErr.Code {
		case ErrNetwork:
			return KindNetwork
		case ErrHTTP:
			return KindHTTPStatus
		case ErrDecode:
			return KindDecode
		case ErrMetric:
			return KindPartialMetric
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindNetwork
	}
	return KindUnknown
}

// Summary returns the first line of a structured error without the failure
// symbol, suitable for a single-line notice.
func Summary(err error) string {
	if err == nil {
		return ""
	}
	var siErr *Error
	if errors.As(err, &siErr) {
		if siErr.Cause != nil {
			return siErr.Message + ": " + siErr.Cause.Error()
		}
		return siErr.Message
	}
	return err.Error()
}
