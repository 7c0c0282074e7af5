package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-checkable classification carried by every error
// this service surfaces to callers.
type ErrorKind string

const (
	// KindValidation: caller input failed a constraint. Terminal, never
	// reaches the upstream provider.
	KindValidation ErrorKind = "validation"

	// KindUpstream: the provider was unreachable, returned a non-success
	// status, or timed out. Session state is left untouched.
	KindUpstream ErrorKind = "upstream"
)

// Error is the single error type crossing package boundaries. Message must
// stay safe to show to callers; API keys and other secrets never go in it.
type Error struct {
	Kind    ErrorKind
	Message string

	// Status is the upstream HTTP status when known, 0 otherwise.
	Status int

	Err error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Kind, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NewUpstreamError(msg string, status int, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Status: status, Err: err}
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindValidation
}

// IsUpstream checks if an error is an upstream provider error.
func IsUpstream(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindUpstream
}

// KindOf returns the error's kind, or "" for errors this package did not
// classify.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
