// Package apperror is the error taxonomy shared by repositories, guards and
// handlers. Every error carries the HTTP status it maps to.
package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is a failure with a declared status. A list error serializes its
// messages as an array; every other error serializes a single string.
type Error struct {
	Status   int
	Messages []string
	list     bool
	cause    error
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Wrap records cause so callers can still inspect the original failure.
func (e *Error) Wrap(cause error) *Error {
	e.cause = cause
	return e
}

func (e *Error) Error() string {
	if len(e.Messages) == 1 {
		return e.Messages[0]
	}
	b, _ := json.Marshal(e.Messages)
	return string(b)
}

// Message is the value placed under error.message in the response body.
func (e *Error) Message() any {
	if e.list {
		return e.Messages
	}
	if len(e.Messages) == 0 {
		return http.StatusText(e.Status)
	}
	return e.Messages[0]
}

// MarshalJSON renders the {"error": {"message": ..., "status": ...}} envelope.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"error": map[string]any{
			"message": e.Message(),
			"status":  e.Status,
		},
	})
}

func New(status int, msg string) *Error {
	return &Error{Status: status, Messages: []string{msg}}
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, fmt.Sprintf(format, args...))
}

// Unauthorized covers both unauthenticated and not-entitled callers.
func Unauthorized() *Error {
	return New(http.StatusUnauthorized, "Unauthorized")
}

func BadRequest(format string, args ...any) *Error {
	return New(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

// Validation carries one message per failed field.
func Validation(msgs ...string) *Error {
	return &Error{Status: http.StatusBadRequest, Messages: msgs, list: true}
}

// Conflict is a write the store rejected; msg is the store's detail.
func Conflict(msg string) *Error {
	return New(http.StatusBadRequest, msg)
}

// Status returns the declared status of err, or 500.
func Status(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// From returns err as an *Error, replacing anything undeclared with a bare 500.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return New(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// Is reports whether err is an *Error with the given status.
func Is(err error, status int) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status == status
}
