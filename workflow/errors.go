package workflow

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can react without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthorization
	KindConflict
	KindNotFound
	KindInvalidTarget
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindInvalidTarget:
		return "invalid_target"
	case KindTransport:
		return "transport"
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String. Unrecognised codes map to KindUnknown.
func ParseKind(code string) Kind {
	for k := KindValidation; k <= KindTransport; k++ {
		if k.String() == code {
			return k
		}
	}
	return KindUnknown
}

// Error is the error type returned by every workflow operation.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches against the package sentinels by kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Op == "" && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrUnauthorized  = &Error{Kind: KindAuthorization}
	ErrConflict      = &Error{Kind: KindConflict}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrInvalidTarget = &Error{Kind: KindInvalidTarget}
	ErrTransport     = &Error{Kind: KindTransport}
	ErrUnknown       = &Error{Kind: KindUnknown}
)

// ErrUnauthenticated marks authorization failures caused by a missing or
// invalid sign-in, as opposed to a signed-in principal lacking permission.
var ErrUnauthenticated = errors.New("not signed in")

// Unauthenticated builds an authorization *Error wrapping ErrUnauthenticated.
func Unauthenticated(op, message string) *Error {
	return &Error{Kind: KindAuthorization, Op: op, Message: message, Err: ErrUnauthenticated}
}

// E builds an *Error.
func E(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap builds an *Error around a cause.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the user-facing text of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
