// Package apperror defines the error taxonomy shared by services and the HTTP
// boundary. Services return *Error values; the handler layer maps Kind to an
// HTTP status exactly once.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for boundary handling.
type Kind int

const (
	// KindConfiguration marks missing or unreadable key material and other
	// startup-grade misconfiguration. Fatal, never retried per request.
	KindConfiguration Kind = iota
	// KindClientInput marks 400-class errors safe to echo to the caller.
	KindClientInput
	// KindAuthentication marks 401-class failures. The message is always
	// generic; the cause (missing, expired, bad algorithm, revoked) is never
	// distinguished to the caller.
	KindAuthentication
	// KindAuthorization marks 403-class failures: valid identity,
	// insufficient role.
	KindAuthorization
	// KindStore marks record-store failures surfaced as 500-class.
	KindStore
)

// Error carries a kind, a caller-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an error of the given kind with a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, defaulting to KindStore for anything
// untyped so unexpected failures surface as server errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStore
}

// Status maps an error kind to its HTTP status code.
func Status(kind Kind) int {
	switch kind {
	case KindClientInput:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// TypeName returns the taxonomy name used in error response bodies.
func TypeName(kind Kind) string {
	switch kind {
	case KindConfiguration:
		return "ConfigurationError"
	case KindClientInput:
		return "ClientInputError"
	case KindAuthentication:
		return "AuthenticationFailure"
	case KindAuthorization:
		return "AuthorizationFailure"
	default:
		return "StoreFailure"
	}
}

// Message returns the caller-facing message for err. Untyped errors collapse
// to a generic message so internals never leak.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

// Body builds the wire shape of an error response. Every error leaving the
// service, from middleware or a handler, uses this single shape.
func Body(kind Kind, message string) map[string]any {
	return map[string]any{
		"errors": []map[string]any{
			{
				"type":     TypeName(kind),
				"msg":      message,
				"path":     "",
				"location": "",
			},
		},
	}
}
