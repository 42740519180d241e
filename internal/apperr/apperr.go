// Package apperr defines the error kinds shared by the policy, store and service
// layers. Handlers map kinds to HTTP status codes; nothing below them knows about HTTP.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrInternal        = errors.New("internal error")
)

// Error carries a kind (one of the sentinels above), a stable machine-readable
// reason and a human message. errors.Is(err, ErrConflict) matches on the kind.
type Error struct {
	Kind    error
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Kind.Error() + ": " + e.Err.Error()
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func New(kind error, reason, message string) *Error {
	return &Error{Kind: kind, Reason: reason, Message: message}
}

func Unauthenticated(message string) *Error {
	return New(ErrUnauthenticated, "unauthenticated", message)
}

func Forbidden(reason, message string) *Error {
	return New(ErrForbidden, reason, message)
}

func NotFound(resource string) *Error {
	return New(ErrNotFound, "not_found", resource+" not found")
}

func Conflict(reason, message string) *Error {
	return New(ErrConflict, reason, message)
}

func Validation(message string) *Error {
	return New(ErrValidation, "invalid_input", message)
}

// Internal wraps an infrastructure failure. The cause is kept for logging and is
// never shown to clients.
func Internal(err error) *Error {
	return &Error{Kind: ErrInternal, Reason: "internal", Err: err}
}

// Reason returns the stable reason of err, or "internal" for foreign errors.
func Reason(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return "internal"
}

// HTTPStatus maps an error kind to a response status.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
