package main

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/denine/artstore/cart"
	"github.com/denine/artstore/catalog"
	"github.com/denine/artstore/orders"
	"github.com/denine/artstore/payments"
	"github.com/denine/artstore/store"
)

type handler struct {
	catalog  CatalogService
	cart     CartService
	payments payments.PaymentService
	webhooks WebhookVerifier
	orders   orders.OrdersService
	logger   *slog.Logger
}

func NewHandler(
	catalog CatalogService,
	cart CartService,
	payments payments.PaymentService,
	webhooks WebhookVerifier,
	orders orders.OrdersService,
	logger *slog.Logger,
) *handler {
	return &handler{
		catalog:  catalog,
		cart:     cart,
		payments: payments,
		webhooks: webhooks,
		orders:   orders,
		logger:   logger,
	}
}

func (h *handler) registerRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/", h.handleRoot)
		r.Get("/health", h.handleHealth)

		r.Get("/prints", h.handleListPrints)
		r.Get("/prints/{themeID}", h.handleGetPrint)

		r.Route("/cart/{sessionID}", func(r chi.Router) {
			r.Get("/", h.handleGetCart)
			r.Post("/add", h.handleAddToCart)
			r.Delete("/item/{itemID}", h.handleRemoveFromCart)
			r.Delete("/", h.handleClearCart)
		})

		r.Post("/payments/checkout", h.handleCheckout)
		r.Get("/payments/status/{paymentSessionID}", h.handlePaymentStatus)
		r.Post("/webhook/payments", h.handleWebhook)
		r.Post("/webhook/stripe", h.handleWebhook)

		r.Get("/orders/{sessionID}", h.handleGetOrders)

		r.Route("/admin/prints", func(r chi.Router) {
			r.Get("/", h.handleListPrints)
			r.Post("/", h.handleCreatePrint)
			r.Put("/{themeID}", h.handleUpdatePrint)
			r.Delete("/{themeID}", h.handleDeletePrint)
		})
	})
}

func (h *handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "DE---NINE Art Store API",
		"status":  "running",
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   "denine-art-store",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (h *handler) handleListPrints(w http.ResponseWriter, r *http.Request) {
	themes, err := h.catalog.ListThemes(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if themes == nil {
		themes = []store.PrintTheme{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"prints": themes})
}

func (h *handler) handleGetPrint(w http.ResponseWriter, r *http.Request) {
	theme, err := h.catalog.GetTheme(r.Context(), chi.URLParam(r, "themeID"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, theme)
}

func (h *handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	totals, err := h.cart.GetCartTotals(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

func (h *handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	totals, err := h.cart.AddItem(r.Context(), chi.URLParam(r, "sessionID"), cart.AddItemRequest{
		ThemeID:          *req.ThemeID,
		SelectedVariants: req.SelectedVariants,
		Quantity:         *req.Quantity,
		UnitPrice:        *req.UnitPrice,
	})
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

func (req addItemRequest) validate() error {
	switch {
	case req.ThemeID == nil:
		return required("theme_id")
	case req.SelectedVariants == nil:
		return required("selected_variants")
	case req.Quantity == nil:
		return required("quantity")
	case req.UnitPrice == nil:
		return required("unit_price")
	}
	return nil
}

func (h *handler) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	totals, err := h.cart.RemoveItem(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

func (h *handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.ClearCart(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: "Cart cleared successfully"})
}

func (h *handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if req.SessionID == nil {
		writeError(w, h.logger, r, required("session_id"))
		return
	}
	if req.CustomerInfo == nil {
		writeError(w, h.logger, r, required("customer_info"))
		return
	}

	result, err := h.payments.CreateCheckout(r.Context(), payments.CheckoutRequest{
		SessionID:     *req.SessionID,
		CustomerInfo:  req.CustomerInfo,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	amount, _ := result.Amount.Float64()
	respondJSON(w, http.StatusOK, checkoutResponse{
		CheckoutURL: result.CheckoutURL,
		SessionID:   result.ExternalSessionID,
		Amount:      amount,
		Currency:    result.Currency,
	})
}

func (h *handler) handlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	view, err := h.payments.Reconcile(r.Context(), chi.URLParam(r, "paymentSessionID"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "webhook payload too large")
			return
		}
		h.logger.Error("failed to read webhook body", slog.Any("error", err))
		respondError(w, http.StatusServiceUnavailable, "read_error", "could not read request body")
		return
	}

	event, err := h.webhooks.VerifyAndParseWebhook(body, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.logger.Warn("rejected webhook", slog.Any("error", err))
		respondError(w, http.StatusBadRequest, "invalid_webhook", "invalid webhook payload")
		return
	}

	h.logger.Info("webhook received",
		slog.String("event", event.Type),
		slog.String("payment_id", event.SessionID),
	)

	if err := h.payments.HandleWebhook(r.Context(), event); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *handler) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.orders.ListOrders(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": list})
}

func (h *handler) handleCreatePrint(w http.ResponseWriter, r *http.Request) {
	var req createPrintRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if req.ThemeID == nil {
		writeError(w, h.logger, r, required("theme_id"))
		return
	}
	if req.Theme == nil {
		writeError(w, h.logger, r, required("theme"))
		return
	}

	theme, err := h.catalog.CreateTheme(r.Context(), catalog.CreateThemeRequest{
		ThemeID:     *req.ThemeID,
		Theme:       *req.Theme,
		Description: req.Description,
		BasePrice:   req.BasePrice,
	})
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, theme)
}

func (h *handler) handleUpdatePrint(w http.ResponseWriter, r *http.Request) {
	var req updatePrintRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	theme, err := h.catalog.UpdateTheme(r.Context(), chi.URLParam(r, "themeID"), store.ThemeUpdate{
		Theme:       req.Theme,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		Variants:    req.Variants,
	})
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, theme)
}

func (h *handler) handleDeletePrint(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteTheme(r.Context(), chi.URLParam(r, "themeID")); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: "Print theme deleted successfully"})
}
