package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across domain services.
var (
	// ErrNotFound is returned when a requested record does not exist
	// or is not visible to the caller.
	ErrNotFound = errors.New("record not found")

	// ErrEmptyCart is returned when checkout is attempted on a cart
	// with no lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrForbidden is returned when the caller is authenticated but
	// not allowed to perform the operation.
	ErrForbidden = errors.New("operation not permitted")
)

// InsufficientStockError reports a checkout line that asked for more
// units than the product currently has.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d (%s): requested %d, available %d",
		e.ProductID, e.ProductName, e.Requested, e.Available)
}

// InvalidTransitionError reports a rejected order state change.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// ValidationError reports invalid caller-supplied input for a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidation builds a ValidationError for a field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
