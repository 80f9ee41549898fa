package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/denine/artstore/common/apperr"
	"github.com/denine/artstore/store"
)

// Shipping is free for every order.
const ShippingCost int64 = 0

type Store interface {
	InsertCartItem(ctx context.Context, item *store.CartLineItem) error
	ListCartItems(ctx context.Context, sessionID string) ([]store.CartLineItem, error)
	DeleteCartItem(ctx context.Context, sessionID, itemID string) error
	DeleteCartItems(ctx context.Context, sessionID string) (int64, error)
}

// ThemeLookup resolves the theme a line item refers to.
type ThemeLookup interface {
	GetTheme(ctx context.Context, themeID string) (*store.PrintTheme, error)
}

// Totals is the computed view of a session's cart.
type Totals struct {
	Subtotal int64                `json:"subtotal"`
	Shipping int64                `json:"shipping"`
	Total    int64                `json:"total"`
	Items    []store.CartLineItem `json:"items"`
}

type AddItemRequest struct {
	ThemeID          string
	SelectedVariants []string
	Quantity         int64
	UnitPrice        int64
}

type Service struct {
	store  Store
	themes ThemeLookup
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store Store, themes ThemeLookup, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		themes: themes,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// GetCartTotals sums the session's line items. An unknown session is an empty cart.
func (s *Service) GetCartTotals(ctx context.Context, sessionID string) (*Totals, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}

	items, err := s.store.ListCartItems(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list cart items for %s: %w", sessionID, err)
	}
	return computeTotals(items)
}

func (s *Service) AddItem(ctx context.Context, sessionID string, req AddItemRequest) (*Totals, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	if err := validateAddItem(req); err != nil {
		return nil, err
	}

	theme, err := s.themes.GetTheme(ctx, req.ThemeID)
	if err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}
	for _, variantID := range req.SelectedVariants {
		if !theme.HasVariant(variantID) {
			return nil, apperr.Validation("variant %q does not belong to theme %q", variantID, req.ThemeID)
		}
	}

	current, err := s.GetCartTotals(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	lineTotal := req.UnitPrice * req.Quantity
	if current.Subtotal > math.MaxInt64-lineTotal {
		return nil, apperr.Validation("cart total would exceed %d", int64(math.MaxInt64))
	}

	now := s.now()
	item := &store.CartLineItem{
		SessionID:        sessionID,
		ThemeID:          req.ThemeID,
		SelectedVariants: req.SelectedVariants,
		Quantity:         req.Quantity,
		UnitPrice:        req.UnitPrice,
		TotalPrice:       lineTotal,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.InsertCartItem(ctx, item); err != nil {
		return nil, fmt.Errorf("insert cart item: %w", err)
	}

	s.logger.Debug("cart item added",
		slog.String("session_id", sessionID),
		slog.String("theme_id", req.ThemeID),
		slog.Int64("quantity", req.Quantity),
	)

	return s.GetCartTotals(ctx, sessionID)
}

// RemoveItem deletes itemID only when it belongs to sessionID.
func (s *Service) RemoveItem(ctx context.Context, sessionID, itemID string) (*Totals, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteCartItem(ctx, sessionID, itemID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.logger.Warn("cart item not found for session",
				slog.String("session_id", sessionID),
				slog.String("item_id", itemID),
			)
		}
		return nil, fmt.Errorf("remove cart item %s: %w", itemID, err)
	}

	return s.GetCartTotals(ctx, sessionID)
}

// ClearCart is idempotent.
func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}

	deleted, err := s.store.DeleteCartItems(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("clear cart %s: %w", sessionID, err)
	}

	s.logger.Debug("cart cleared", slog.String("session_id", sessionID), slog.Int64("deleted", deleted))
	return nil
}

// computeTotals refuses to wrap: a sum past MaxInt64 can only come from rows
// written outside AddItem or from racing adds.
func computeTotals(items []store.CartLineItem) (*Totals, error) {
	if items == nil {
		items = []store.CartLineItem{}
	}
	var subtotal int64
	for _, item := range items {
		if item.TotalPrice < 0 || subtotal > math.MaxInt64-item.TotalPrice {
			return nil, fmt.Errorf("cart total out of range at item %s", item.ID.Hex())
		}
		subtotal += item.TotalPrice
	}
	return &Totals{
		Subtotal: subtotal,
		Shipping: ShippingCost,
		Total:    subtotal + ShippingCost,
		Items:    items,
	}, nil
}

func validateSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return apperr.Validation("session_id is required")
	}
	return nil
}

func validateAddItem(req AddItemRequest) error {
	if strings.TrimSpace(req.ThemeID) == "" {
		return apperr.Validation("theme_id is required")
	}
	if req.SelectedVariants == nil {
		return apperr.Validation("selected_variants is required")
	}
	if req.Quantity <= 0 {
		return apperr.Validation("quantity must be a positive integer, got %d", req.Quantity)
	}
	if req.UnitPrice < 0 {
		return apperr.Validation("unit_price must not be negative, got %d", req.UnitPrice)
	}
	// total_price must stay exactly unit_price*quantity
	if req.UnitPrice != 0 && req.Quantity > math.MaxInt64/req.UnitPrice {
		return apperr.Validation("quantity %d at unit_price %d overflows the line total", req.Quantity, req.UnitPrice)
	}
	return nil
}
