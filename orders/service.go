package orders

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/denine/artstore/common/apperr"
	"github.com/denine/artstore/store"
)

type service struct {
	store  OrdersStore
	logger *slog.Logger
}

func NewService(store OrdersStore, logger *slog.Logger) *service {
	return &service{store: store, logger: logger}
}

// ListOrders returns the session's order history, newest first. A session
// without orders gets an empty slice.
func (s *service) ListOrders(ctx context.Context, sessionID string) ([]store.Order, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperr.Validation("session_id is required")
	}

	orders, err := s.store.ListOrdersBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list orders for %s: %w", sessionID, err)
	}
	if orders == nil {
		orders = []store.Order{}
	}

	s.logger.Debug("orders listed", slog.String("session_id", sessionID), slog.Int("count", len(orders)))
	return orders, nil
}
