package main

import (
	"context"

	"github.com/denine/artstore/cart"
	"github.com/denine/artstore/catalog"
	"github.com/denine/artstore/payments/processor"
	"github.com/denine/artstore/store"
)

type CatalogService interface {
	ListThemes(ctx context.Context) ([]store.PrintTheme, error)
	GetTheme(ctx context.Context, themeID string) (*store.PrintTheme, error)
	CreateTheme(ctx context.Context, req catalog.CreateThemeRequest) (*store.PrintTheme, error)
	UpdateTheme(ctx context.Context, themeID string, update store.ThemeUpdate) (*store.PrintTheme, error)
	DeleteTheme(ctx context.Context, themeID string) error
}

type CartService interface {
	GetCartTotals(ctx context.Context, sessionID string) (*cart.Totals, error)
	AddItem(ctx context.Context, sessionID string, req cart.AddItemRequest) (*cart.Totals, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (*cart.Totals, error)
	ClearCart(ctx context.Context, sessionID string) error
}

// WebhookVerifier authenticates raw provider callbacks.
type WebhookVerifier interface {
	VerifyAndParseWebhook(payload []byte, signatureHeader string) (*processor.WebhookEvent, error)
}

type addItemRequest struct {
	ThemeID          *string  `json:"theme_id"`
	SelectedVariants []string `json:"selected_variants"`
	Quantity         *int64   `json:"quantity"`
	UnitPrice        *int64   `json:"unit_price"`
}

type checkoutRequest struct {
	SessionID     *string           `json:"session_id"`
	CustomerInfo  map[string]string `json:"customer_info"`
	PaymentMethod string            `json:"payment_method"`
}

type checkoutResponse struct {
	CheckoutURL string  `json:"checkout_url"`
	SessionID   string  `json:"session_id"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

type createPrintRequest struct {
	ThemeID     *string `json:"theme_id"`
	Theme       *string `json:"theme"`
	Description string  `json:"description"`
	BasePrice   *int64  `json:"base_price"`
}

type updatePrintRequest struct {
	Theme       *string         `json:"theme"`
	Description *string         `json:"description"`
	BasePrice   *int64          `json:"base_price"`
	Variants    []store.Variant `json:"variants"`
}

type messageResponse struct {
	Message string `json:"message"`
}
