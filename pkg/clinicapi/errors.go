package clinicapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoToken is returned before any network call when the request carries
// no upstream credentials.
var ErrNoToken = errors.New("clinicapi: no upstream token in context")

// ValidationError is a 400 response. Fields holds the first message per
// submitted body field when the request asked for field errors.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return "clinicapi: validation failed: " + e.Message
	}
	return "clinicapi: validation failed"
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return "clinicapi: not found: " + e.Message
	}
	return "clinicapi: not found"
}

// AuthError covers 401 and 403.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("clinicapi: %s (%d)", e.Message, e.StatusCode)
}

// TransientError is a transport failure or any other non-success status.
// StatusCode is zero when no response arrived.
type TransientError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransientError) Error() string {
	switch {
	case e.Err != nil:
		return "clinicapi: request failed: " + e.Err.Error()
	case e.Message != "":
		return fmt.Sprintf("clinicapi: upstream error (%d): %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("clinicapi: upstream error (%d)", e.StatusCode)
	}
}

func (e *TransientError) Unwrap() error { return e.Err }

// classify maps a non-success status to its typed error.
func classify(status int, message string, fields map[string]string) error {
	switch status {
	case http.StatusBadRequest:
		return &ValidationError{Message: message, Fields: fields}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{StatusCode: status, Message: message}
	case http.StatusNotFound:
		return &NotFoundError{Message: message}
	default:
		return &TransientError{StatusCode: status, Message: message}
	}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
