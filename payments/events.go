package payments

import (
	"context"
	"log/slog"

	"github.com/denine/artstore/common/broker"
	"github.com/denine/artstore/store"
)

const (
	OrderFinalizedEvent = broker.OrderFinalizedEvent
	PaymentUpdatedEvent = broker.PaymentUpdatedEvent
)

type PaymentUpdated struct {
	PaymentID     string `json:"payment_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

type OrderFinalized struct {
	OrderNumber string `json:"order_number"`
	SessionID   string `json:"session_id"`
	PaymentID   string `json:"payment_id"`
	Total       int64  `json:"total"`
	Currency    string `json:"currency"`
}

func newOrderFinalized(order *store.Order, tx *store.PaymentTransaction) OrderFinalized {
	return OrderFinalized{
		OrderNumber: order.OrderNumber,
		SessionID:   order.SessionID,
		PaymentID:   tx.PaymentID,
		Total:       order.Total,
		Currency:    tx.Currency,
	}
}

// publish never fails the caller; the database is the source of truth.
func (s *Service) publish(ctx context.Context, event string, payload any) {
	if err := s.publisher.Publish(ctx, event, payload); err != nil {
		s.logger.Warn("failed to publish event",
			slog.String("event", event),
			slog.Any("error", err),
		)
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error { return nil }
