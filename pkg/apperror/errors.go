// Package apperror defines the errors services return to the HTTP layer.
// Each carries the status code and the message shown to the caller.
package apperror

import (
	"errors"
	"net/http"
)

// AppError is a failure the caller is allowed to see
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError points a validation failure at one request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}

	// ErrTenantRequired is returned when a tenant-owned row is touched
	// without a tenant in scope
	ErrTenantRequired = &AppError{Code: http.StatusBadRequest, Message: "Tenant context required"}
	ErrInvoiceLocked  = &AppError{Code: http.StatusConflict, Message: "Only draft invoices can be edited"}
)

// NewAppError creates an error with an arbitrary status
func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewValidationError reports one or more invalid fields with 422
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// Invalid is NewValidationError for a single field
func Invalid(field, message string) *AppError {
	return NewValidationError([]FieldError{{Field: field, Message: message}})
}

// NewNotFoundError names the missing resource, e.g. "Invoice not found"
func NewNotFoundError(resource string) *AppError {
	return NewAppError(http.StatusNotFound, resource+" not found")
}

// NewConflictError rejects a request that clashes with the current state
func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message)
}

// NewBadRequestError rejects a malformed request
func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message)
}

// IsAppError reports whether err wraps an *AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError unwraps err to its *AppError. Anything else is reported as a
// generic 500 so driver messages never reach the client.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServer
}
