package apierr

import (
	"errors"
	"fmt"
	"net/http"

	errs "github.com/yungbote/directchat-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromError maps a service error onto the HTTP surface. Request validation is
// a 400; every other service failure, not-found included, is a 500.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	switch errs.KindOf(err) {
	case errs.ErrValidation:
		return New(http.StatusBadRequest, "invalid_request", err)
	case errs.ErrUnauthorized:
		return New(http.StatusUnauthorized, "unauthorized", err)
	case errs.ErrForbidden:
		return New(http.StatusForbidden, "forbidden", err)
	case errs.ErrUserNotFound:
		return New(http.StatusInternalServerError, "user_not_found", err)
	case errs.ErrChatNotFound:
		return New(http.StatusInternalServerError, "chat_not_found", err)
	case errs.ErrNotFound:
		return New(http.StatusInternalServerError, "not_found", err)
	case errs.ErrPersistence:
		return New(http.StatusInternalServerError, "persistence_failure", err)
	default:
		return New(http.StatusInternalServerError, "internal", err)
	}
}
