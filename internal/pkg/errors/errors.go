package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrPersistence marks an underlying storage failure.
	ErrPersistence = errors.New("persistence failure")
	// ErrProtocol marks an unrecognized realtime event.
	ErrProtocol = errors.New("protocol violation")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks an authenticated caller acting outside its rights.
	ErrForbidden = errors.New("forbidden")

	ErrUserNotFound error = &refined{msg: "user not found", parent: ErrNotFound}
	ErrChatNotFound error = &refined{msg: "chat not found", parent: ErrNotFound}
)

type refined struct {
	msg    string
	parent error
}

func (r *refined) Error() string { return r.msg }
func (r *refined) Unwrap() error { return r.parent }

// Error carries a named failure kind across a service boundary.
type Error struct {
	Kind   error
	Op     string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Validation(op string, format string, args ...any) *Error {
	return &Error{Kind: ErrValidation, Op: op, Detail: fmt.Sprintf(format, args...)}
}

func UserNotFound(op string, usernames ...string) *Error {
	return &Error{Kind: ErrUserNotFound, Op: op, Detail: strings.Join(usernames, ", ")}
}

func ChatNotFound(op string, chatID fmt.Stringer) *Error {
	return &Error{Kind: ErrChatNotFound, Op: op, Detail: chatID.String()}
}

func NotFound(op string, format string, args ...any) *Error {
	return &Error{Kind: ErrNotFound, Op: op, Detail: fmt.Sprintf(format, args...)}
}

func Persistence(op string, err error) *Error {
	return &Error{Kind: ErrPersistence, Op: op, Err: err}
}

func Protocol(op string, format string, args ...any) *Error {
	return &Error{Kind: ErrProtocol, Op: op, Detail: fmt.Sprintf(format, args...)}
}

func Unauthorized(op string, format string, args ...any) *Error {
	return &Error{Kind: ErrUnauthorized, Op: op, Detail: fmt.Sprintf(format, args...)}
}

func Forbidden(op string, format string, args ...any) *Error {
	return &Error{Kind: ErrForbidden, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// KindOf returns the most specific sentinel err carries, or nil.
func KindOf(err error) error {
	for _, k := range []error{ErrUserNotFound, ErrChatNotFound, ErrNotFound, ErrValidation, ErrPersistence, ErrProtocol, ErrForbidden, ErrUnauthorized} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
