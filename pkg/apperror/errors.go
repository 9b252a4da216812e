package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers that need to branch on it
type Kind string

const (
	KindValidation            Kind = "VALIDATION_ERROR"
	KindProductNotFound       Kind = "PRODUCT_NOT_FOUND"
	KindInsufficientStock     Kind = "INSUFFICIENT_STOCK"
	KindAlreadyCancelled      Kind = "ALREADY_CANCELLED"
	KindCannotCancelCompleted Kind = "CANNOT_CANCEL_COMPLETED"
	KindTransactionFailure    Kind = "TRANSACTION_FAILURE"
	KindNotFound              Kind = "NOT_FOUND"
	KindUnauthorized          Kind = "UNAUTHORIZED"
	KindForbidden             Kind = "FORBIDDEN"
	KindBadRequest            Kind = "BAD_REQUEST"
	KindConflict              Kind = "CONFLICT"
	KindInternal              Kind = "INTERNAL"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int            `json:"code"`
	Kind    Kind           `json:"kind"`
	Message string         `json:"message"`
	Errors  []FieldError   `json:"errors,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	cause   error
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying store error of a TransactionFailure
func (e *AppError) Unwrap() error {
	return e.cause
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Kind: KindForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: "Resource already exists"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid email or password"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid token"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kindForStatus(code),
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValidation,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewFieldError is a validation error about a single field.
func NewFieldError(field, message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValidation,
		Message: message,
		Errors:  []FieldError{{Field: field, Message: message}},
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// NewProductNotFoundError reports a product that does not belong to the shop.
func NewProductNotFoundError(productID fmt.Stringer) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindProductNotFound,
		Message: fmt.Sprintf("Product %s not found", productID),
		Details: map[string]any{"product_id": productID.String()},
	}
}

// NewInsufficientStockError carries the available and requested quantities.
func NewInsufficientStockError(productID fmt.Stringer, productName string, available, requested int) *AppError {
	name := productName
	if name == "" {
		name = productID.String()
	}
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("Insufficient stock for %s: available %d, requested %d", name, available, requested),
		Details: map[string]any{
			"product_id": productID.String(),
			"available":  available,
			"requested":  requested,
		},
	}
}

// NewAlreadyCancelledError is returned when cancelling a cancelled order
func NewAlreadyCancelledError(orderNumber string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindAlreadyCancelled,
		Message: fmt.Sprintf("Order %s is already cancelled", orderNumber),
	}
}

// NewCannotCancelCompletedError is returned when cancelling a completed sale
func NewCannotCancelCompletedError(orderNumber string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindCannotCancelCompleted,
		Message: fmt.Sprintf("Order %s is completed and cannot be cancelled; use a refund instead", orderNumber),
	}
}

// NewTransactionFailure wraps a store error that aborted a transaction.
func NewTransactionFailure(op string, cause error) *AppError {
	return &AppError{
		Code:    http.StatusServiceUnavailable,
		Kind:    KindTransactionFailure,
		Message: op + " failed",
		cause:   cause,
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// KindOf returns the Kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is an AppError of the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: err.Error(),
	}
}

func kindForStatus(code int) Kind {
	switch code {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusConflict:
		return KindConflict
	case http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusBadRequest:
		return KindBadRequest
	default:
		return KindInternal
	}
}
