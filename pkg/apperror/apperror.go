package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an application error so transports can map it to a status.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
	KindMedia
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindMedia:
		return "media"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is the error type returned by services.
// Message is safe to show to clients; Err keeps the cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Validation(msg string) *Error         { return newError(KindValidation, msg, nil) }
func Auth(msg string) *Error               { return newError(KindAuth, msg, nil) }
func Forbidden(msg string) *Error          { return newError(KindForbidden, msg, nil) }
func NotFound(msg string) *Error           { return newError(KindNotFound, msg, nil) }
func Conflict(msg string) *Error           { return newError(KindConflict, msg, nil) }
func Media(msg string, err error) *Error   { return newError(KindMedia, msg, err) }
func Storage(msg string, err error) *Error { return newError(KindStorage, msg, err) }

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps err to an HTTP status code. Unclassified errors are 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the client-facing message. Server-side failures get a
// generic text so storage and media internals do not leak.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "internal server error"
	}
	switch e.Kind {
	case KindMedia:
		return "media service error"
	case KindStorage, KindUnknown:
		return "internal server error"
	}
	return e.Message
}
