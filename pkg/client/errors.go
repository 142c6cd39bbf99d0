package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrAuth                 = errors.New("authentication failed")
	ErrAuthRequired         = errors.New("sign in required")
	ErrProfileFetch         = errors.New("failed to load profile")
	ErrProfileCreate        = errors.New("failed to create profile")
	ErrRemoteWrite          = errors.New("failed to save changes")
	ErrRemoteRead           = errors.New("failed to load data")
	ErrAuthorization        = errors.New("not allowed")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("already exists")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrRateLimited          = errors.New("too many requests")
	ErrCancelled            = errors.New("cancelled")
)

// ValidationError reports bad user input. Most are raised before any request
// is made; the server may still reject input with the same type.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// APIError is a non-2xx response. It unwraps to the matching sentinel.
type APIError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v (%d)", e.kind, e.StatusCode)
	}
	return fmt.Sprintf("%v: %s", e.kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

func newAPIError(method string, status int, message string) error {
	var kind error
	switch status {
	case http.StatusBadRequest:
		return &ValidationError{Message: message}
	case http.StatusUnauthorized:
		kind = ErrAuthRequired
	case http.StatusForbidden:
		kind = ErrAuthorization
	case http.StatusNotFound:
		kind = ErrNotFound
	case http.StatusConflict:
		kind = ErrConflict
	case http.StatusPreconditionRequired:
		kind = ErrConfirmationRequired
	case http.StatusTooManyRequests:
		kind = ErrRateLimited
	default:
		if method == http.MethodGet {
			kind = ErrRemoteRead
		} else {
			kind = ErrRemoteWrite
		}
	}
	return &APIError{StatusCode: status, Message: message, kind: kind}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
