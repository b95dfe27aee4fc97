// Package errors provides the structured application error type used by
// the HTTP layer: machine-readable codes with HTTP status mapping and a
// stable JSON response shape.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode is a machine-readable error code.
type ErrorCode string

const (
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeValidation   ErrorCode = "VALIDATION_FAILED"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeRunFailed    ErrorCode = "RUN_FAILED"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// AppError is the unified application error type.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates an AppError.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// NotFound reports a missing resource.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s %q not found", resource, id),
		HTTPStatus: http.StatusNotFound,
	}
}

// InvalidInput reports an invalid request field.
func InvalidInput(field, reason string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    fmt.Sprintf("invalid %s: %s", field, reason),
		HTTPStatus: http.StatusBadRequest,
	}
}

// Validation reports a failed payload validation.
func Validation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Unauthorized reports a failed authentication.
func Unauthorized(reason string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    reason,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// RunFailed reports a workflow run that aborted on a step or condition
// failure.
func RunFailed(cause error) *AppError {
	return &AppError{
		Code:       CodeRunFailed,
		Message:    "workflow run failed",
		HTTPStatus: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// Internal reports an unexpected server-side error.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "internal error",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ErrorResponse is the JSON structure returned to clients.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains the error details sent to clients.
type ErrorBody struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse for serialization.
// The cause stays server-side.
func (e *AppError) ToResponse() ErrorResponse {
	body := ErrorBody{Code: e.Code, Message: e.Message, Details: e.Details}
	if e.Cause != nil {
		body.Message = body.Message + ": " + e.Cause.Error()
	}
	return ErrorResponse{Error: body}
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
