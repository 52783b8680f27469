package utils

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindConflict
	KindNotFound
	KindAuth
	KindForbidden
	KindPersistence
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindPersistence:
		return "persistence"
	}
	return "unknown"
}

// AppError is the error type every service returns. Message is safe to show
// to the client; Err carries the underlying cause and is never shown in
// production.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches the kind-only sentinels below, so errors.Is(err, ErrConflict)
// works for any conflict.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrValidation  = &AppError{Kind: KindValidation}
	ErrConflict    = &AppError{Kind: KindConflict}
	ErrNotFound    = &AppError{Kind: KindNotFound}
	ErrAuth        = &AppError{Kind: KindAuth}
	ErrForbidden   = &AppError{Kind: KindForbidden}
	ErrPersistence = &AppError{Kind: KindPersistence}
)

func ValidationError(format string, args ...any) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func ConflictError(format string, args ...any) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NotFoundError(format string, args ...any) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func AuthError(format string, args ...any) *AppError {
	return &AppError{Kind: KindAuth, Message: fmt.Sprintf(format, args...)}
}

func ForbiddenError(format string, args ...any) *AppError {
	return &AppError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a storage failure. An AppError coming back out of a
// transaction closure is returned untouched so rollbacks keep their cause.
func PersistenceError(err error, message string) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Kind: KindPersistence, Message: message, Err: err}
}

// HTTPStatus maps an error to the status code of its envelope.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
