package payments

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/denine/artstore/cart"
	"github.com/denine/artstore/payments/processor"
	"github.com/denine/artstore/store"
)

// MethodStripe is the only supported payment method.
const MethodStripe = "stripe"

// PaymentService is the checkout and reconciliation surface used by the HTTP layer.
type PaymentService interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
	Reconcile(ctx context.Context, externalSessionID string) (*StatusView, error)
	HandleWebhook(ctx context.Context, event *processor.WebhookEvent) error
	FinalizeOrder(ctx context.Context, externalSessionID string) (*store.Order, error)
}

type Store interface {
	InsertTransaction(ctx context.Context, tx *store.PaymentTransaction) error
	FindTransactionByPaymentID(ctx context.Context, paymentID string) (*store.PaymentTransaction, error)
	UpdateTransactionStatus(ctx context.Context, paymentID, status, paymentStatus string) error
	InsertOrder(ctx context.Context, order *store.Order) error
	FindOrderByPaymentTransactionID(ctx context.Context, paymentTransactionID string) (*store.Order, error)
	MarkOrderCartCleared(ctx context.Context, orderNumber string) error
}

// Cart is the slice of the cart service checkout and finalize depend on.
type Cart interface {
	GetCartTotals(ctx context.Context, sessionID string) (*cart.Totals, error)
	ClearCart(ctx context.Context, sessionID string) error
}

// EventPublisher announces payment and order changes. Publishing is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload any) error
}

type Config struct {
	Currency    string
	FrontendURL string
}

type CheckoutRequest struct {
	SessionID     string
	CustomerInfo  map[string]string
	PaymentMethod string
}

type CheckoutResult struct {
	CheckoutURL       string
	ExternalSessionID string
	// Amount is in major units, as shown to the customer.
	Amount   decimal.Decimal
	Currency string
}

// StatusView mirrors what the provider reports for a checkout session.
type StatusView struct {
	ExternalSessionID string `json:"session_id"`
	Status            string `json:"status"`
	PaymentStatus     string `json:"payment_status"`
	AmountTotal       int64  `json:"amount_total"`
	Currency          string `json:"currency"`
}
