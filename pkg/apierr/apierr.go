// Package apierr defines the error taxonomy shared by the repository and
// HTTP layers. Every error carries the HTTP status it maps to.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation      = "validation_error"
	CodeNotFound        = "not_found"
	CodeUnauthorized    = "unauthorized"
	CodeForbidden       = "forbidden"
	CodePersistence     = "persistence_error"
	CodeTooManyRequests = "too_many_requests"
	CodeInternal        = "internal_error"
)

type Error struct {
	Status  int
	Code    string
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code, message string, err error) *Error {
	return &Error{Status: status, Code: code, Message: message, Err: err}
}

// Validation reports missing or malformed input (400).
func Validation(message string, details ...string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Message: message, Details: details}
}

// NotFound reports an unknown document or user id (404).
func NotFound(message string) *Error {
	return New(http.StatusNotFound, CodeNotFound, message, nil)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, CodeForbidden, message, nil)
}

// Persistence wraps a database failure (500). The cause is kept for logs
// and non-production responses only.
func Persistence(err error) *Error {
	return New(http.StatusInternalServerError, CodePersistence, "database error", err)
}

func TooManyRequests(message string) *Error {
	return New(http.StatusTooManyRequests, CodeTooManyRequests, message, nil)
}

// From normalises any error into an *Error, defaulting to a generic 500.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(http.StatusInternalServerError, CodeInternal, "internal server error", err)
}

// Is reports whether err is an *Error with the given code.
func Is(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
