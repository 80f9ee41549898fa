package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/denine/artstore/common/apperr"
)

// ErrInvalidWebhook is returned for payloads that fail signature verification or parsing.
var ErrInvalidWebhook = fmt.Errorf("%w: invalid webhook payload", apperr.ErrValidation)

// Stripe implements PaymentProcessor with hosted Checkout Sessions.
type Stripe struct {
	webhookSecret string
}

// NewStripeProcessor sets the global API key used by the stripe-go resource packages.
func NewStripeProcessor(apiKey, webhookSecret string) *Stripe {
	stripe.Key = apiKey
	return &Stripe{
		webhookSecret: webhookSecret,
	}
}

// CreateSession opens a one-off payment session with a single line item for the whole cart.
func (s *Stripe) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	if req.Amount.IsNegative() {
		return nil, apperr.Validation("amount must not be negative")
	}

	description := req.Description
	if description == "" {
		description = "Art prints"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		Metadata:   req.Metadata,
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(req.Currency)),
					UnitAmount: stripe.Int64(MajorToMinor(req.Amount)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	result, err := session.New(params)
	if err != nil {
		return nil, apperr.Provider("create checkout session", err)
	}

	return &Session{
		ID:  result.ID,
		URL: result.URL,
	}, nil
}

func (s *Stripe) GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	result, err := session.Get(sessionID, params)
	if err != nil {
		return nil, apperr.Provider("get checkout session", err)
	}

	return &SessionStatus{
		ID:            result.ID,
		Status:        string(result.Status),
		PaymentStatus: string(result.PaymentStatus),
		AmountTotal:   result.AmountTotal,
		Currency:      strings.ToUpper(string(result.Currency)),
	}, nil
}

// VerifyAndParseWebhook checks the Stripe-Signature header and extracts the checkout
// session for checkout.session.* events. Other events come back with only Type set.
func (s *Stripe) VerifyAndParseWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(
		payload,
		signatureHeader,
		s.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWebhook, err)
	}

	parsed := &WebhookEvent{Type: string(event.Type)}
	if !strings.HasPrefix(parsed.Type, "checkout.session.") {
		return parsed, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWebhook, err)
	}
	parsed.SessionID = cs.ID
	parsed.PaymentStatus = string(cs.PaymentStatus)

	return parsed, nil
}

var _ PaymentProcessor = (*Stripe)(nil)
