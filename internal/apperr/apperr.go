// Package apperr defines the error taxonomy surfaced to callers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind string

const (
	KindInput    Kind = "input"
	KindNotFound Kind = "not_found"
	KindEngine   Kind = "engine"
	KindConflict Kind = "conflict"
	KindInternal Kind = "internal"
)

// Error carries a kind, a caller-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error of the given kind.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Input reports a rejected request (empty text, missing keyword, bad id).
func Input(message string) *Error {
	return New(KindInput, message, nil)
}

// NotFound reports a lookup without a match.
func NotFound(message string) *Error {
	return New(KindNotFound, message, nil)
}

// Engine wraps a failure raised inside an analysis engine.
func Engine(message string, cause error) *Error {
	return New(KindEngine, message, cause)
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsInput reports whether err is an input error.
func IsInput(err error) bool {
	return err != nil && KindOf(err) == KindInput
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// Conflict reports a request that clashes with work already in progress.
func Conflict(message string) *Error {
	return New(KindConflict, message, nil)
}

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool {
	return err != nil && KindOf(err) == KindConflict
}
