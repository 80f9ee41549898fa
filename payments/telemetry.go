package payments

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/denine/artstore/payments/processor"
	"github.com/denine/artstore/store"
)

type TelemetryMiddleware struct {
	next PaymentService
}

func NewTelemetryMiddleware(next PaymentService) PaymentService {
	return &TelemetryMiddleware{next}
}

func (s *TelemetryMiddleware) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(fmt.Sprintf("CreateCheckout: session=%s, method=%s", req.SessionID, req.PaymentMethod))

	return s.next.CreateCheckout(ctx, req)
}

func (s *TelemetryMiddleware) Reconcile(ctx context.Context, externalSessionID string) (*StatusView, error) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(fmt.Sprintf("Reconcile: %s", externalSessionID))

	return s.next.Reconcile(ctx, externalSessionID)
}

func (s *TelemetryMiddleware) HandleWebhook(ctx context.Context, event *processor.WebhookEvent) error {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(fmt.Sprintf("HandleWebhook: type=%s, session=%s", event.Type, event.SessionID))

	return s.next.HandleWebhook(ctx, event)
}

func (s *TelemetryMiddleware) FinalizeOrder(ctx context.Context, externalSessionID string) (*store.Order, error) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(fmt.Sprintf("FinalizeOrder: %s", externalSessionID))

	return s.next.FinalizeOrder(ctx, externalSessionID)
}
