// Package errors carries the error envelope shared by the HTTP layer and the
// application service: a stable code, a message, optional per-field details
// and the HTTP status it renders with.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeIllegalTransition  = "ILLEGAL_TRANSITION"
	CodeNotFound           = "RESOURCE_NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeBadRequest         = "BAD_REQUEST"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

var statusByCode = map[string]int{
	CodeValidationError:    http.StatusBadRequest,
	CodeBadRequest:         http.StatusBadRequest,
	CodeNotFound:           http.StatusNotFound,
	CodeIllegalTransition:  http.StatusConflict,
	CodeConflict:           http.StatusConflict,
	CodeServiceUnavailable: http.StatusServiceUnavailable,
	CodeInternalError:      http.StatusInternalServerError,
}

// AppError is an error with a code, HTTP status and optional details
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	HTTPStatus int               `json:"-"`
	Err        error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds one detail, e.g. the id that was not found
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Wrap records the underlying cause
func (e *AppError) Wrap(err error) *AppError {
	e.Err = err
	return e
}

// NewAppError creates an AppError with an explicit status
func NewAppError(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

func newCoded(code, message string) *AppError {
	return NewAppError(code, message, statusByCode[code])
}

// ErrValidation is a 400 for bad input values
func ErrValidation(message string) *AppError {
	return newCoded(CodeValidationError, message)
}

// ErrValidationWithFields is a 400 with one detail per offending field
func ErrValidationWithFields(message string, fields map[string]string) *AppError {
	appErr := ErrValidation(message)
	for field, reason := range fields {
		appErr.WithDetail(field, reason)
	}
	return appErr
}

// ErrIllegalTransition is a 409 for a rejected item status change
func ErrIllegalTransition(message string) *AppError {
	return newCoded(CodeIllegalTransition, message)
}

// ErrNotFound is a 404 naming the missing resource
func ErrNotFound(resource string) *AppError {
	return newCoded(CodeNotFound, resource+" not found")
}

// ErrConflict is a 409 for operations the current state forbids
func ErrConflict(message string) *AppError {
	return newCoded(CodeConflict, message)
}

// ErrInternal is a 500. An empty message gets a generic one.
func ErrInternal(message string) *AppError {
	if message == "" {
		message = "an internal error occurred"
	}
	return newCoded(CodeInternalError, message)
}

// ErrBadRequest is a 400 for malformed requests
func ErrBadRequest(message string) *AppError {
	return newCoded(CodeBadRequest, message)
}

// ErrServiceUnavailable is a 503 for a disabled or unreachable dependency
func ErrServiceUnavailable(service string) *AppError {
	return newCoded(CodeServiceUnavailable, service+" is temporarily unavailable")
}

// AsAppError finds an AppError in err's chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// FromError converts any error to an AppError, defaulting to internal
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return ErrInternal("").Wrap(err)
}
