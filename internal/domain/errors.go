package domain

import "fmt"

// ErrorKind is the wire-level error taxonomy. Each kind maps to exactly
// one HTTP status in the transport layer.
type ErrorKind string

const (
	KindBadRequest      ErrorKind = "bad_request"
	KindUnauthorized    ErrorKind = "unauthorized"
	KindForbidden       ErrorKind = "forbidden"
	KindNotFound        ErrorKind = "not_found"
	KindConflict        ErrorKind = "conflict"
	KindUnprocessable   ErrorKind = "unprocessable_entity"
	KindTooManyRequests ErrorKind = "too_many_requests"
	KindValidation      ErrorKind = "validation_error"
	KindImage           ErrorKind = "image_error"
	KindDatabase        ErrorKind = "database_error"
	KindCache           ErrorKind = "cache_error"
	KindInternal        ErrorKind = "internal_server_error"
)

// Error is a kinded application error. Messages on 4xx kinds are safe for
// clients; 5xx kinds are replaced with a generic body at the edge.
type Error struct {
	Kind    ErrorKind
	Message string
	Details map[string]string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Fixed sentinels for the common outcomes. Compare with errors.Is.
var (
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "resource not found"}
	ErrConflict        = &Error{Kind: KindConflict, Message: "conflict"}
	ErrForbidden       = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrUnauthorized    = &Error{Kind: KindUnauthorized, Message: "authentication required"}
	ErrTooManyRequests = &Error{Kind: KindTooManyRequests, Message: "too many requests"}
)

// NotFoundError builds a not-found error with a caller-facing message.
func NotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// ValidationError builds a validation error with a caller-facing message.
func ValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// ConflictError builds a conflict error with a caller-facing message.
func ConflictError(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// ImageError wraps a decode or encode failure as a client-visible 400.
func ImageError(msg string) *Error {
	return &Error{Kind: KindImage, Message: msg}
}
