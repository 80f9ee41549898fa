package processor

import (
	"context"

	"github.com/shopspring/decimal"
)

// Webhook event types the reconciler acts on.
const (
	EventCheckoutCompleted             = "checkout.session.completed"
	EventCheckoutAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
	EventCheckoutAsyncPaymentFailed    = "checkout.session.async_payment_failed"
)

// SessionPlaceholder is substituted by the provider with the checkout session id.
const SessionPlaceholder = "{CHECKOUT_SESSION_ID}"

type SessionRequest struct {
	// Amount is in major currency units (kroner, not øre).
	Amount      decimal.Decimal
	Currency    string
	SuccessURL  string
	CancelURL   string
	Description string
	Metadata    map[string]string
}

type Session struct {
	ID  string
	URL string
}

type SessionStatus struct {
	ID            string
	Status        string
	PaymentStatus string
	AmountTotal   int64
	Currency      string
}

type WebhookEvent struct {
	Type          string
	SessionID     string
	PaymentStatus string
}

// PaymentProcessor is the capability the storefront needs from a payment provider.
type PaymentProcessor interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error)
	VerifyAndParseWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error)
}
