package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Common application errors
var (
	ErrNotFound         = NewNotFoundError("resource", "Not found")
	ErrUnauthorized     = NewUnauthorizedError("Unauthorized")
	ErrMethodNotAllowed = NewMethodNotAllowedError("Method not allowed")
	ErrInternal         = NewInternalError("Internal server error", nil)
)

// HTTPStatuser is implemented by errors that know their HTTP status code
type HTTPStatuser interface {
	HTTPStatus() int
}

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// HTTPStatus returns the HTTP status for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns the HTTP status for this error
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// UnauthorizedError represents a missing or rejected credential
type UnauthorizedError struct {
	Message string
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// Error implements the error interface
func (e *UnauthorizedError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status for this error
func (e *UnauthorizedError) HTTPStatus() int {
	return http.StatusUnauthorized
}

// MethodNotAllowedError represents an unsupported verb on a known route
type MethodNotAllowedError struct {
	Message string
}

// NewMethodNotAllowedError creates a new method not allowed error
func NewMethodNotAllowedError(message string) *MethodNotAllowedError {
	return &MethodNotAllowedError{Message: message}
}

// Error implements the error interface
func (e *MethodNotAllowedError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status for this error
func (e *MethodNotAllowedError) HTTPStatus() int {
	return http.StatusMethodNotAllowed
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// HTTPStatus resolves the HTTP status for any error in the chain.
// Errors without a known status map to 500.
func HTTPStatus(err error) int {
	var s HTTPStatuser
	if stderrors.As(err, &s) {
		return s.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message that is safe to send to clients.
// Internal details are never exposed.
func PublicMessage(err error) string {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		unauthErr     *UnauthorizedError
		methodErr     *MethodNotAllowedError
	)

	switch {
	case stderrors.As(err, &validationErr):
		return validationErr.Message
	case stderrors.As(err, &notFoundErr):
		return notFoundErr.Error()
	case stderrors.As(err, &unauthErr):
		return unauthErr.Message
	case stderrors.As(err, &methodErr):
		return methodErr.Message
	default:
		return ErrInternal.Message
	}
}
