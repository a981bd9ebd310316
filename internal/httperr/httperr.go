// Package httperr maps the service error taxonomy onto HTTP responses.
//
// Validation failures surface as 4xx with a message naming the violated
// constraint; unexpected engine failures surface as 500 with a generic
// message while the detail is logged server-side. Handlers never leak
// stack traces or internal diagnostics to clients.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents an HTTP error with status code and client-safe message.
type Error struct {
	Code    int    // HTTP status code
	Message string // Single-sentence, client-safe description
	err     error  // Wrapped cause, for server-side logging only
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

// Unwrap exposes the cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.err }

// New creates an HTTP error with the given status code and message.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an HTTP error with a formatted message.
func Newf(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to an HTTP error without changing what the client
// sees.
func Wrap(code int, message string, cause error) *Error {
	return &Error{Code: code, Message: message, err: cause}
}

// InvalidParameter builds a 400 response naming the violated constraint.
func InvalidParameter(format string, args ...any) *Error {
	return Newf(http.StatusBadRequest, format, args...)
}

// UnsupportedMediaType builds a 415 response for a detected type outside
// the allow-list.
func UnsupportedMediaType(detected string, allowed []string) *Error {
	return Newf(http.StatusUnsupportedMediaType, "invalid file type: detected %s, allowed types: %v", detected, allowed)
}

// PayloadTooLarge builds a 413 response for an upload over the ceiling.
func PayloadTooLarge(size, limit int64) *Error {
	return Newf(http.StatusRequestEntityTooLarge, "file size %d bytes exceeds maximum allowed size %d bytes", size, limit)
}

// AuthenticationFailure builds a 401 response for a wrong document password.
func AuthenticationFailure() *Error {
	return New(http.StatusUnauthorized, "incorrect password")
}

// EngineFailure builds a 500 response. The cause stays server-side.
func EngineFailure(operation string, cause error) *Error {
	return Wrap(http.StatusInternalServerError, fmt.Sprintf("error %s", operation), cause)
}

// FromError normalizes any error into an *Error. Known HTTP errors pass
// through; anything else becomes a 500 with a generic message.
func FromError(err error) *Error {
	var httpErr *Error
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return Wrap(http.StatusInternalServerError, "an unexpected error occurred", err)
}
