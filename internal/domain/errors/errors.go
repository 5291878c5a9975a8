package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidOTP         = errors.New("invalid or expired verification code")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("access denied")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidToken       = errors.New("invalid or expired confirmation token")
	ErrConflict           = errors.New("order was modified concurrently, reload and retry")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidRating      = errors.New("rating must be an integer between 1 and 5")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrCouponInvalid      = errors.New("coupon is not applicable")
)

// ValidationError reports missing or malformed input fields.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

// NewValidationError returns nil when no fields are given.
func NewValidationError(fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// InvalidStateError is returned when an operation is attempted outside the
// order status phase that allows it.
type InvalidStateError struct {
	Op     string
	Status string
	Phase  string
}

func (e *InvalidStateError) Error() string {
	if e.Phase != "" {
		return fmt.Sprintf("cannot %s: order is %s (%s)", e.Op, e.Status, e.Phase)
	}
	return fmt.Sprintf("cannot %s: order is %s", e.Op, e.Status)
}
