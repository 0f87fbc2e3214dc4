package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code      int          `json:"code"`
	Message   string       `json:"message"`
	Errors    []FieldError `json:"errors,omitempty"`
	Retryable bool         `json:"retryable,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized   = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden      = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict       = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrUnprocessable  = &AppError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable entity"}
	ErrTokenExpired   = &AppError{Code: http.StatusUnauthorized, Message: "Token has expired"}
	ErrInvalidToken   = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}

	// POS workflow errors. These are raised before any backend call.
	ErrNoRegister       = &AppError{Code: http.StatusUnprocessableEntity, Message: "Please select a register first"}
	ErrNoActiveSession  = &AppError{Code: http.StatusUnprocessableEntity, Message: "Please start a session first"}
	ErrEmptyCart        = &AppError{Code: http.StatusUnprocessableEntity, Message: "Cart is empty"}
	ErrInactiveRegister = &AppError{Code: http.StatusUnprocessableEntity, Message: "Register is not active"}
	ErrNoPendingAction  = &AppError{Code: http.StatusNotFound, Message: "No pending confirmation"}
	ErrNoReceipt        = &AppError{Code: http.StatusNotFound, Message: "No receipt to show"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewWarning creates a client-side validation error shown to the cashier as
// a warning. No backend call has been made when one of these is returned.
func NewWarning(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: message,
	}
}

// NewOutOfStockError is returned when a product cannot be added again
func NewOutOfStockError(stock int) *AppError {
	return NewWarning(fmt.Sprintf("Out of stock: only %d items in stock", stock))
}

// NewInsufficientStockError is returned when a quantity edit exceeds stock
func NewInsufficientStockError(stock int) *AppError {
	return NewWarning(fmt.Sprintf("Insufficient stock: only %d items in stock", stock))
}

// NewUpstreamError wraps a failure reported by (or while reaching) the
// backend. Transport failures and 5xx responses are retryable; 4xx
// responses keep their status so the client can react to them.
func NewUpstreamError(status int, message string) *AppError {
	switch {
	case status == 0 || status >= 500:
		return &AppError{Code: http.StatusBadGateway, Message: message, Retryable: true}
	case status == http.StatusTooManyRequests:
		return &AppError{Code: status, Message: message, Retryable: true}
	default:
		return &AppError{Code: status, Message: message}
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsConflict reports whether err is an AppError carrying 409
func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == http.StatusConflict
}

// HasCode reports whether err is an AppError with the given status code
func HasCode(err error, code int) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
