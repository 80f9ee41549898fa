package main

import (
	"context"
	"sync"

	"github.com/denine/artstore/cart"
	"github.com/denine/artstore/catalog"
	"github.com/denine/artstore/payments"
	"github.com/denine/artstore/payments/processor"
	"github.com/denine/artstore/store"
)

type mockCatalog struct {
	themes    []store.PrintTheme
	err       error
	created   *catalog.CreateThemeRequest
	updated   *store.ThemeUpdate
	deletedID string
}

func (m *mockCatalog) ListThemes(ctx context.Context) ([]store.PrintTheme, error) {
	return m.themes, m.err
}

func (m *mockCatalog) GetTheme(ctx context.Context, themeID string) (*store.PrintTheme, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.themes {
		if m.themes[i].ThemeID == themeID {
			return &m.themes[i], nil
		}
	}
	return nil, store.ErrThemeNotFound
}

func (m *mockCatalog) CreateTheme(ctx context.Context, req catalog.CreateThemeRequest) (*store.PrintTheme, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = &req
	return &store.PrintTheme{ThemeID: req.ThemeID, Theme: req.Theme, BasePrice: catalog.DefaultBasePrice}, nil
}

func (m *mockCatalog) UpdateTheme(ctx context.Context, themeID string, update store.ThemeUpdate) (*store.PrintTheme, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.updated = &update
	theme, err := m.GetTheme(ctx, themeID)
	if err != nil {
		return nil, err
	}
	if update.BasePrice != nil {
		theme.BasePrice = *update.BasePrice
	}
	return theme, nil
}

func (m *mockCatalog) DeleteTheme(ctx context.Context, themeID string) error {
	if m.err != nil {
		return m.err
	}
	if _, err := m.GetTheme(ctx, themeID); err != nil {
		return err
	}
	m.deletedID = themeID
	return nil
}

type mockCart struct {
	totals   *cart.Totals
	err      error
	added    *cart.AddItemRequest
	cleared  string
	removed  string
	lastSess string
}

func (m *mockCart) GetCartTotals(ctx context.Context, sessionID string) (*cart.Totals, error) {
	m.lastSess = sessionID
	return m.totals, m.err
}

func (m *mockCart) AddItem(ctx context.Context, sessionID string, req cart.AddItemRequest) (*cart.Totals, error) {
	m.lastSess = sessionID
	if m.err != nil {
		return nil, m.err
	}
	m.added = &req
	return m.totals, nil
}

func (m *mockCart) RemoveItem(ctx context.Context, sessionID, itemID string) (*cart.Totals, error) {
	m.lastSess = sessionID
	if m.err != nil {
		return nil, m.err
	}
	m.removed = itemID
	return m.totals, nil
}

func (m *mockCart) ClearCart(ctx context.Context, sessionID string) error {
	if m.err != nil {
		return m.err
	}
	m.cleared = sessionID
	return nil
}

type mockPayments struct {
	mu         sync.Mutex
	checkout   *payments.CheckoutResult
	status     *payments.StatusView
	err        error
	checkedOut *payments.CheckoutRequest
	webhooks   []*processor.WebhookEvent
}

func (m *mockPayments) CreateCheckout(ctx context.Context, req payments.CheckoutRequest) (*payments.CheckoutResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.checkedOut = &req
	return m.checkout, nil
}

func (m *mockPayments) Reconcile(ctx context.Context, externalSessionID string) (*payments.StatusView, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.status, nil
}

func (m *mockPayments) HandleWebhook(ctx context.Context, event *processor.WebhookEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.webhooks = append(m.webhooks, event)
	return nil
}

func (m *mockPayments) FinalizeOrder(ctx context.Context, externalSessionID string) (*store.Order, error) {
	return nil, m.err
}

// mockVerifier accepts only the signature "valid".
type mockVerifier struct {
	event   *processor.WebhookEvent
	payload []byte
}

func (m *mockVerifier) VerifyAndParseWebhook(payload []byte, signatureHeader string) (*processor.WebhookEvent, error) {
	m.payload = payload
	if signatureHeader != "valid" {
		return nil, processor.ErrInvalidWebhook
	}
	return m.event, nil
}

type mockOrders struct {
	orders []store.Order
	err    error
}

func (m *mockOrders) ListOrders(ctx context.Context, sessionID string) ([]store.Order, error) {
	return m.orders, m.err
}

type mockSeeder struct {
	themes []store.PrintTheme
	err    error
}

func (m *mockSeeder) UpsertTheme(ctx context.Context, theme *store.PrintTheme) error {
	if m.err != nil {
		return m.err
	}
	m.themes = append(m.themes, *theme)
	return nil
}
