// Package apperr holds the error taxonomy shared by the storefront components.
// Components wrap these sentinels with %w; the HTTP layer maps them to status codes.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation               = errors.New("validation failed")
	ErrNotFound                 = errors.New("not found")
	ErrConflict                 = errors.New("already exists")
	ErrEmptyCart                = errors.New("cart is empty")
	ErrUnsupportedPaymentMethod = errors.New("payment method not supported")
	ErrPaymentProvider          = errors.New("payment provider error")
)

// Validation returns an ErrValidation carrying a human readable reason.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Provider wraps a payment SDK failure so callers can match ErrPaymentProvider.
func Provider(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPaymentProvider, op, err)
}
