package games

import (
	"errors"
	"fmt"
)

// Kind classifies failures so callers can tell "not allowed" from "not found" from "bad input".
type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindForbidden    Kind = "FORBIDDEN"
	KindInvalidState Kind = "INVALID_STATE"
	KindValidation   Kind = "VALIDATION"
	KindConflict     Kind = "CONFLICT"
)

// Sentinels for errors.Is; matching is by Kind only.
var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrInvalidState = &Error{Kind: KindInvalidState}
	ErrValidation   = &Error{Kind: KindValidation}
	ErrConflict     = &Error{Kind: KindConflict}
)

// Error is the typed error returned by every game operation.
type Error struct {
	Kind    Kind
	Op      string
	GameID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// KindOf returns the kind of err, or "" when err is not a game error.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}

func newError(kind Kind, op, gameID, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		GameID:  gameID,
		Message: fmt.Sprintf(format, args...),
	}
}

// NotFound reports an unknown game or member reference.
func NotFound(op, gameID string) *Error {
	return newError(KindNotFound, op, gameID, "game %q not found", gameID)
}

// Validation reports malformed input.
func Validation(op, format string, args ...any) *Error {
	return newError(KindValidation, op, "", format, args...)
}

// Conflict reports a concurrent or duplicate write detected by storage.
func Conflict(op, gameID string, cause error) *Error {
	e := newError(KindConflict, op, gameID, "conflicting write for game %q", gameID)
	e.Cause = cause
	return e
}
