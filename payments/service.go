package payments

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/denine/artstore/common/apperr"
	"github.com/denine/artstore/common/metrics"
	"github.com/denine/artstore/payments/processor"
	"github.com/denine/artstore/store"
)

// maxOrderNumberAttempts bounds retries after an order_number collision.
const maxOrderNumberAttempts = 3

type Service struct {
	processor processor.PaymentProcessor
	store     Store
	cart      Cart
	publisher EventPublisher
	metrics   *metrics.BusinessMetrics
	logger    *slog.Logger
	config    Config
	now       func() time.Time
}

// NewService wires the checkout initiator and reconciler. publisher may be nil.
func NewService(
	p processor.PaymentProcessor,
	s Store,
	c Cart,
	publisher EventPublisher,
	m *metrics.BusinessMetrics,
	logger *slog.Logger,
	config Config,
) *Service {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	config.FrontendURL = strings.TrimRight(config.FrontendURL, "/")
	return &Service{
		processor: p,
		store:     s,
		cart:      c,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		config:    config,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateCheckout snapshots the cart into a pending transaction and returns the
// provider's hosted checkout URL. Nothing is persisted if the provider call fails.
func (s *Service) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, apperr.Validation("session_id is required")
	}
	method := req.PaymentMethod
	if method == "" {
		method = MethodStripe
	}

	totals, err := s.cart.GetCartTotals(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("checkout totals: %w", err)
	}
	if len(totals.Items) == 0 {
		return nil, apperr.ErrEmptyCart
	}
	if method != MethodStripe {
		return nil, fmt.Errorf("%w: %q", apperr.ErrUnsupportedPaymentMethod, method)
	}

	amount := processor.MinorToMajor(totals.Total)
	metadata := map[string]string{
		"session_id":     req.SessionID,
		"payment_method": method,
		"customer_email": req.CustomerInfo["email"],
		"item_count":     strconv.Itoa(len(totals.Items)),
	}

	start := time.Now()
	session, err := s.processor.CreateSession(ctx, processor.SessionRequest{
		Amount:      amount,
		Currency:    s.config.Currency,
		SuccessURL:  s.config.FrontendURL + "/payment/success?session_id=" + processor.SessionPlaceholder,
		CancelURL:   s.config.FrontendURL + "/payment/cancel",
		Description: fmt.Sprintf("DE---NINE art prints (%d items)", len(totals.Items)),
		Metadata:    metadata,
	})
	s.metrics.ObserveProvider("create_session", start)
	if err != nil {
		s.logger.Error("failed to create checkout session",
			slog.String("session_id", req.SessionID),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("create checkout: %w", err)
	}

	now := s.now()
	tx := &store.PaymentTransaction{
		SessionID:     req.SessionID,
		PaymentMethod: method,
		PaymentID:     session.ID,
		Amount:        totals.Total,
		Currency:      s.config.Currency,
		Status:        store.TransactionPending,
		PaymentStatus: store.PaymentStatusInitiated,
		Items:         totals.Items,
		Metadata:      metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.InsertTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("record payment transaction %s: %w", session.ID, err)
	}

	s.metrics.CheckoutsCreated.Inc()
	s.logger.Info("checkout session created",
		slog.String("session_id", req.SessionID),
		slog.String("payment_id", session.ID),
		slog.Int64("amount", totals.Total),
		slog.String("currency", s.config.Currency),
	)

	return &CheckoutResult{
		CheckoutURL:       session.URL,
		ExternalSessionID: session.ID,
		Amount:            amount,
		Currency:          s.config.Currency,
	}, nil
}

var _ PaymentService = (*Service)(nil)
