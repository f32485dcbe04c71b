// internal/service/order/domain/errors.go
package domain

import (
	"errors"
	"net/http"
)

// ErrNotFound is the repository's miss sentinel.
var ErrNotFound = errors.New("order not found")

// Error is the {status, message} shape every failure carries across the
// service boundary. The transport edge maps Status to its own native error
// representation.
type Error struct {
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// NewValidationError reports a caller mistake (bad input, unknown product).
func NewValidationError(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// NewNotFoundError reports a missing order.
func NewNotFoundError(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// NewRemoteError reports a failing or timed-out collaborator (catalog,
// payment, store). The cause is kept for logs, not for the caller.
func NewRemoteError(message string, cause error) *Error {
	return &Error{Status: http.StatusBadGateway, Message: message, cause: cause}
}

// AsError coerces any error into the boundary shape; errors without the shape
// are wrapped with a generic client-error status.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Status: http.StatusBadRequest, Message: err.Error(), cause: err}
}
