package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hortsatta/dot-games-sub000/internal/domain"
	"github.com/hortsatta/dot-games-sub000/internal/orders"
)

type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	Details    string `json:"details,omitempty"`
	PaymentRef string `json:"payment_ref,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps the service error taxonomy onto status codes.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr  *domain.ValidationError
		intentErr      *domain.PaymentIntentError
		persistenceErr *domain.OrderPersistenceError
		remoteErr      *domain.RemoteCallError
	)

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "unauthenticated", "sign in to continue")
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   validationErr.Error(),
			Code:    "invalid_request",
			Details: validationErr.Field,
		})
	case errors.Is(err, domain.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", "cart is empty")
	case errors.Is(err, domain.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, orders.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
	case errors.Is(err, domain.ErrNoPaymentConfirmation):
		respondError(w, http.StatusBadRequest, "payment_not_confirmed", err.Error())
	case errors.Is(err, domain.ErrPaymentMismatch):
		respondError(w, http.StatusConflict, "payment_mismatch", err.Error())
	case errors.As(err, &persistenceErr):
		slog.ErrorContext(r.Context(), "order not recorded after payment",
			"payment_ref", persistenceErr.PaymentRef,
			"request_id", getRequestID(r.Context()),
			"error", persistenceErr.Err)
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:      "payment received but the order could not be recorded, retry to finish",
			Code:       "order_not_recorded",
			PaymentRef: persistenceErr.PaymentRef,
		})
	case errors.As(err, &intentErr):
		slog.WarnContext(r.Context(), "payment intent failed", "request_id", getRequestID(r.Context()), "error", err)
		respondError(w, http.StatusBadGateway, "payment_intent_failed", "payment could not be started, nothing was charged")
	case errors.As(err, &remoteErr):
		slog.ErrorContext(r.Context(), "remote call failed", "op", remoteErr.Op, "request_id", getRequestID(r.Context()), "error", remoteErr.Err)
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "service temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "request timed out")
	default:
		slog.ErrorContext(r.Context(), "unhandled error", "request_id", getRequestID(r.Context()), "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
