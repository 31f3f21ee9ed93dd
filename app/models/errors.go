package models

import "fmt"

// InsufficientStockError reports a mutation that would consume more units
// than the category pool holds. No partial mutation occurs.
type InsufficientStockError struct {
	Category  Category
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock in category %s: requested %d, available %d",
		e.Category, e.Requested, e.Available)
}

// ValidationError carries field-level messages for malformed input.
type ValidationError struct {
	Errors map[string]string
}

// NewValidationError builds a single-field ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	for field, msg := range e.Errors {
		return fmt.Sprintf("validation failed: %s: %s", field, msg)
	}
	return "validation failed"
}

// NotFoundError reports an operation referencing a nonexistent product id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ID)
}

// StoreUnavailableError wraps a persistence failure (network/IO). The
// service performs no automatic retry; the caller decides.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }
