package orders

import (
	"context"

	"github.com/denine/artstore/store"
)

type OrdersService interface {
	ListOrders(ctx context.Context, sessionID string) ([]store.Order, error)
}

type OrdersStore interface {
	ListOrdersBySession(ctx context.Context, sessionID string) ([]store.Order, error)
}
