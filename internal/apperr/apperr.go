package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so handlers can map it to an HTTP status
// without inspecting message strings.
type Kind int

const (
	Validation Kind = iota
	Authorization
	NotFound
	Dependency
	Internal
)

// Error is the structured error passed between pipeline steps. The first
// failing step short-circuits the rest of the pipeline; Detail carries the
// underlying cause for logging.
type Error struct {
	Kind    Kind
	Message string
	Detail  error
}

func (e *Error) Error() string {
	if e.Detail != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Detail)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Detail
}

// New creates an error with no underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error carrying an underlying cause.
func Wrap(kind Kind, message string, detail error) *Error {
	return &Error{Kind: kind, Message: message, Detail: detail}
}

// KindOf returns the kind of err, or Internal for uncategorized errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf returns the user-facing message of err, or a generic fallback
// for uncategorized errors.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Server error with this request."
}

// HTTPStatus maps an error kind to its response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case Authorization:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Dependency:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
