package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/denine/artstore/common/apperr"
	"github.com/denine/artstore/payments/processor"
	"github.com/denine/artstore/store"
)

// Reconcile polls the provider for a checkout session, mirrors the result onto the
// stored transaction and finalizes the order once the session is paid.
func (s *Service) Reconcile(ctx context.Context, externalSessionID string) (*StatusView, error) {
	if externalSessionID == "" {
		return nil, apperr.Validation("checkout session id is required")
	}

	start := time.Now()
	status, err := s.processor.GetSessionStatus(ctx, externalSessionID)
	s.metrics.ObserveProvider("get_session", start)
	if err != nil {
		return nil, fmt.Errorf("reconcile %s: %w", externalSessionID, err)
	}

	txStatus := status.Status
	if status.PaymentStatus == store.PaymentStatusPaid {
		txStatus = store.TransactionCompleted
	}
	s.updateTransaction(ctx, externalSessionID, txStatus, status.PaymentStatus)

	if status.PaymentStatus == store.PaymentStatusPaid {
		if _, err := s.FinalizeOrder(ctx, externalSessionID); err != nil {
			s.metrics.FinalizeFailures.Inc()
			s.logger.Error("failed to finalize order",
				slog.String("payment_id", externalSessionID),
				slog.Any("error", err),
			)
		}
	}

	return &StatusView{
		ExternalSessionID: externalSessionID,
		Status:            status.Status,
		PaymentStatus:     status.PaymentStatus,
		AmountTotal:       status.AmountTotal,
		Currency:          status.Currency,
	}, nil
}

// HandleWebhook applies a verified provider event. Unknown event types are ignored.
func (s *Service) HandleWebhook(ctx context.Context, event *processor.WebhookEvent) error {
	switch event.Type {
	case processor.EventCheckoutCompleted, processor.EventCheckoutAsyncPaymentSucceeded:
		if event.PaymentStatus != store.PaymentStatusPaid {
			s.logger.Info("checkout session not paid yet",
				slog.String("event", event.Type),
				slog.String("payment_id", event.SessionID),
				slog.String("payment_status", event.PaymentStatus),
			)
			return nil
		}
		s.updateTransaction(ctx, event.SessionID, store.TransactionCompleted, event.PaymentStatus)
		if _, err := s.FinalizeOrder(ctx, event.SessionID); err != nil {
			s.metrics.FinalizeFailures.Inc()
			return fmt.Errorf("finalize from webhook: %w", err)
		}
	case processor.EventCheckoutAsyncPaymentFailed:
		s.updateTransaction(ctx, event.SessionID, store.TransactionFailed, event.PaymentStatus)
	default:
		s.logger.Debug("ignoring webhook event", slog.String("event", event.Type))
	}
	return nil
}

// FinalizeOrder creates the single order for a paid transaction and clears the cart.
// Repeated calls return the existing order; they only touch the cart again when an
// earlier call created the order but failed to clear it.
func (s *Service) FinalizeOrder(ctx context.Context, externalSessionID string) (*store.Order, error) {
	tx, err := s.store.FindTransactionByPaymentID(ctx, externalSessionID)
	if err != nil {
		if errors.Is(err, store.ErrTransactionNotFound) {
			s.logger.Warn("no transaction for paid session", slog.String("payment_id", externalSessionID))
			return nil, nil
		}
		return nil, fmt.Errorf("load transaction %s: %w", externalSessionID, err)
	}

	existing, err := s.findOrder(ctx, tx.PaymentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.metrics.DuplicateFinalizations.Inc()
		if !existing.CartCleared {
			s.logger.Info("resuming cart clear for finalized order",
				slog.String("order_number", existing.OrderNumber),
				slog.String("session_id", existing.SessionID),
			)
			if err := s.clearCart(ctx, existing); err != nil {
				return existing, err
			}
		}
		return existing, nil
	}

	order, created, err := s.insertOrder(ctx, tx)
	if err != nil {
		return nil, err
	}
	if !created {
		return order, nil
	}

	if err := s.clearCart(ctx, order); err != nil {
		return order, err
	}

	s.metrics.OrdersFinalized.Inc()
	s.logger.Info("order finalized",
		slog.String("order_number", order.OrderNumber),
		slog.String("session_id", tx.SessionID),
		slog.String("payment_id", tx.PaymentID),
		slog.Int64("total", order.Total),
	)
	s.publish(ctx, OrderFinalizedEvent, newOrderFinalized(order, tx))

	return order, nil
}

// insertOrder writes a new order for tx. When a concurrent finalize wins the
// unique payment_transaction_id index, the winner's order is returned with
// created false.
func (s *Service) insertOrder(ctx context.Context, tx *store.PaymentTransaction) (*store.Order, bool, error) {
	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		order := s.newOrder(tx)
		err := s.store.InsertOrder(ctx, order)
		if err == nil {
			return order, true, nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return nil, false, fmt.Errorf("insert order for %s: %w", tx.PaymentID, err)
		}

		winner, findErr := s.findOrder(ctx, tx.PaymentID)
		if findErr != nil {
			return nil, false, findErr
		}
		if winner != nil {
			s.metrics.DuplicateFinalizations.Inc()
			s.logger.Info("order already finalized concurrently",
				slog.String("payment_id", tx.PaymentID),
				slog.String("order_number", winner.OrderNumber),
			)
			return winner, false, nil
		}

		s.logger.Warn("order number collision, retrying",
			slog.String("order_number", order.OrderNumber),
			slog.Int("attempt", attempt),
		)
	}
	return nil, false, fmt.Errorf("insert order for %s: %w", tx.PaymentID, store.ErrDuplicate)
}

// clearCart empties the order's session cart and records that on the order.
// A failed mark only means a later finalize clears the cart once more.
func (s *Service) clearCart(ctx context.Context, order *store.Order) error {
	if err := s.cart.ClearCart(ctx, order.SessionID); err != nil {
		return fmt.Errorf("clear cart after order %s: %w", order.OrderNumber, err)
	}
	if err := s.store.MarkOrderCartCleared(ctx, order.OrderNumber); err != nil {
		s.logger.Warn("failed to mark cart cleared",
			slog.String("order_number", order.OrderNumber),
			slog.Any("error", err),
		)
		return nil
	}
	order.CartCleared = true
	return nil
}

func (s *Service) newOrder(tx *store.PaymentTransaction) *store.Order {
	now := s.now()
	return &store.Order{
		OrderNumber:          NewOrderNumber(now),
		SessionID:            tx.SessionID,
		Items:                tx.Items,
		Subtotal:             tx.Amount,
		ShippingCost:         0,
		Total:                tx.Amount,
		Status:               store.OrderProcessing,
		PaymentTransactionID: tx.PaymentID,
		CustomerInfo:         tx.Metadata,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func (s *Service) findOrder(ctx context.Context, paymentID string) (*store.Order, error) {
	order, err := s.store.FindOrderByPaymentTransactionID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("look up order for %s: %w", paymentID, err)
	}
	return order, nil
}

// updateTransaction mirrors provider status locally. A missing transaction is not fatal.
func (s *Service) updateTransaction(ctx context.Context, paymentID, status, paymentStatus string) {
	err := s.store.UpdateTransactionStatus(ctx, paymentID, status, paymentStatus)
	if err != nil {
		if errors.Is(err, store.ErrTransactionNotFound) {
			s.logger.Warn("payment transaction not found", slog.String("payment_id", paymentID))
		} else {
			s.logger.Error("failed to update payment transaction",
				slog.String("payment_id", paymentID),
				slog.Any("error", err),
			)
		}
		return
	}

	s.publish(ctx, PaymentUpdatedEvent, PaymentUpdated{
		PaymentID:     paymentID,
		Status:        status,
		PaymentStatus: paymentStatus,
	})
}
