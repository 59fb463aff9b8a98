// Package apperrors holds the error taxonomy shared by both services and its
// mapping onto HTTP status codes.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %s", e.Resource, e.ID)
}

// BusinessError reports a domain rule violation.
type BusinessError struct {
	Message string
}

func (e *BusinessError) Error() string {
	return e.Message
}

// UnavailableError reports that a downstream service could not answer.
type UnavailableError struct {
	Detail string
	Err    error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return e.Detail
	}
	return e.Detail + ": " + e.Err.Error()
}

// Unwrap returns the transport error, if any.
func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// NotFound creates a NotFoundError.
func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// Business creates a BusinessError.
func Business(message string) *BusinessError {
	return &BusinessError{Message: message}
}

// Businessf creates a BusinessError with a formatted message.
func Businessf(format string, args ...any) *BusinessError {
	return &BusinessError{Message: fmt.Sprintf(format, args...)}
}

// Unavailable creates an UnavailableError wrapping cause.
func Unavailable(detail string, cause error) *UnavailableError {
	return &UnavailableError{Detail: detail, Err: cause}
}

// IsNotFound reports whether err carries a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsBusiness reports whether err carries a BusinessError.
func IsBusiness(err error) bool {
	var target *BusinessError
	return errors.As(err, &target)
}

// IsUnavailable reports whether err carries an UnavailableError.
func IsUnavailable(err error) bool {
	var target *UnavailableError
	return errors.As(err, &target)
}

// HTTPStatus maps err onto the status code the API answers with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsNotFound(err):
		return http.StatusNotFound
	case IsBusiness(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text shown to API callers. Taxonomy errors keep their
// own message; anything else is reported as a server error.
func Message(err error) string {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Error()
	}
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return "Service unavailable: " + ue.Error()
	}
	return "Server error: " + err.Error()
}
