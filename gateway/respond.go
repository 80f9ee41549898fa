package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/denine/artstore/common/apperr"
)

// maxBodyBytes caps JSON request bodies and webhook payloads.
const maxBodyBytes = 65536

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeError maps the apperr taxonomy to a status code. Unexpected errors are
// logged and answered with a generic 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, apperr.ErrEmptyCart):
		status, code = http.StatusBadRequest, "empty_cart"
	case errors.Is(err, apperr.ErrUnsupportedPaymentMethod):
		status, code = http.StatusBadRequest, "unsupported_payment_method"
	case errors.Is(err, apperr.ErrValidation):
		status, code = http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperr.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, apperr.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, apperr.ErrPaymentProvider):
		status, code = http.StatusBadGateway, "payment_provider_error"
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		respondError(w, status, code, "internal server error")
		return
	}
	if status == http.StatusBadGateway {
		logger.Warn("payment provider failure", slog.String("path", r.URL.Path), slog.Any("error", err))
		respondError(w, status, code, "payment provider unavailable")
		return
	}

	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: err.Error(),
	})
}

// decodeJSON reads a single JSON object, rejecting unknown fields and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("invalid JSON body: %v", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperr.Validation("request body must contain a single JSON object")
	}
	return nil
}

func required(field string) error {
	return apperr.Validation("%s is required", field)
}
