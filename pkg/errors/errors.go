// Package errors defines the sentinel errors shared across textquery and
// maps them onto HTTP status codes for the query service.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrOutOfRange        = errors.New("line number out of range")
	ErrInvalidInput      = errors.New("invalid input")
	ErrSourceUnavailable = errors.New("text source unavailable")
	ErrInternal          = errors.New("internal error")
	ErrTimeout           = errors.New("operation timed out")
)

// AppError attaches a caller-facing message, and optionally a fixed HTTP
// status, to one of the sentinels above.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{Err: sentinel, Message: message, StatusCode: statusCode}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return New(sentinel, statusCode, fmt.Sprintf(format, args...))
}

// statusFor is checked in order; the first sentinel found in the chain wins.
var statusFor = []struct {
	err    error
	status int
}{
	{ErrOutOfRange, http.StatusNotFound},
	{ErrInvalidInput, http.StatusBadRequest},
	{ErrSourceUnavailable, http.StatusServiceUnavailable},
	{ErrTimeout, http.StatusServiceUnavailable},
	{context.DeadlineExceeded, http.StatusServiceUnavailable},
}

// HTTPStatusCode picks the response status for err. An AppError with a
// non-zero StatusCode decides for itself.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}
	for _, s := range statusFor {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}
