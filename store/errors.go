package store

import (
	"fmt"

	"github.com/denine/artstore/common/apperr"
)

var (
	ErrThemeNotFound       = fmt.Errorf("print theme %w", apperr.ErrNotFound)
	ErrCartItemNotFound    = fmt.Errorf("cart item %w", apperr.ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("payment transaction %w", apperr.ErrNotFound)
	ErrOrderNotFound       = fmt.Errorf("order %w", apperr.ErrNotFound)

	// ErrDuplicate is returned when a unique index rejects an insert.
	ErrDuplicate = fmt.Errorf("document %w", apperr.ErrConflict)
)
