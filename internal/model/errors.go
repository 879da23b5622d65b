package model

import (
	"errors"
	"fmt"
)

// Error is the error type returned for every expected failure.
//
// Error codes:
//   - VALIDATION: a required field is empty or a value is out of range
//   - NOT_FOUND: a referenced client, product or sale does not exist
//   - INSUFFICIENT_STOCK: a sale asks for more units than are in stock
//   - STORAGE_UNAVAILABLE: the database cannot be reached or written
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context such as the field or ids involved.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes errors.
type ErrorCode string

const (
	ErrCodeValidation         ErrorCode = "VALIDATION"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeInsufficientStock  ErrorCode = "INSUFFICIENT_STOCK"
	ErrCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return CodeOf(err) == ErrCodeValidation }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return CodeOf(err) == ErrCodeNotFound }

// IsInsufficientStock reports whether err is an insufficient-stock error.
func IsInsufficientStock(err error) bool { return CodeOf(err) == ErrCodeInsufficientStock }

// IsStorageUnavailable reports whether err is a storage error.
func IsStorageUnavailable(err error) bool { return CodeOf(err) == ErrCodeStorageUnavailable }

// NewValidationError creates a VALIDATION error about field.
func NewValidationError(field, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf(format, args...),
		Details: map[string]string{"field": field},
	}
}

// NewNotFoundError creates a NOT_FOUND error for the given entity kind and id.
func NewNotFoundError(kind string, id int64) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s %d not found", kind, id),
		Details: map[string]string{
			"kind": kind,
			"id":   fmt.Sprintf("%d", id),
		},
	}
}

// NewInsufficientStockError creates an INSUFFICIENT_STOCK error.
func NewInsufficientStockError(productID, requested, available int64) *Error {
	return &Error{
		Code:    ErrCodeInsufficientStock,
		Message: fmt.Sprintf("insufficient stock for product %d: requested %d, available %d", productID, requested, available),
		Details: map[string]string{
			"product_id": fmt.Sprintf("%d", productID),
			"requested":  fmt.Sprintf("%d", requested),
			"available":  fmt.Sprintf("%d", available),
		},
	}
}

// NewStorageUnavailableError wraps a storage failure of op.
func NewStorageUnavailableError(op string, err error) *Error {
	return &Error{
		Code:    ErrCodeStorageUnavailable,
		Message: op + ": storage unavailable",
		Err:     err,
	}
}
