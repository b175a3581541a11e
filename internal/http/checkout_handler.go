package http

import (
	"context"
	"net/http"
	"time"

	"github.com/hortsatta/dot-games-sub000/internal/domain"
)

type CheckoutAPI interface {
	PrepareCheckout(ctx context.Context, sess domain.Session) (*domain.CheckoutView, error)
	RequestPaymentIntent(ctx context.Context, sess domain.Session) (string, error)
	PlaceOrder(ctx context.Context, sess domain.Session) (domain.Placement, error)
	CompleteOrder(ctx context.Context, sess domain.Session, conf *domain.PaymentConfirmation) (*domain.Order, bool, error)
	ListOrders(ctx context.Context, sess domain.Session) ([]*domain.Order, error)
	GetOrder(ctx context.Context, sess domain.Session, id int64) (*domain.Order, error)
}

type CheckoutHandler struct {
	checkout CheckoutAPI
	timeout  time.Duration
}

func NewCheckoutHandler(checkout CheckoutAPI, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

type CompleteOrderRequestDTO struct {
	PaymentIntentRef string `json:"payment_intent_ref" validate:"required,max=255"`
	Succeeded        bool   `json:"succeeded"`
	ChargeID         string `json:"charge_id" validate:"omitempty,max=255"`
}

type PaymentIntentResponseDTO struct {
	ClientSecret string `json:"client_secret"`
}

// GET /api/v1/checkout
func (h *CheckoutHandler) PrepareCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	view, err := h.checkout.PrepareCheckout(ctx, sessionFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// POST /api/v1/checkout/payment-intent
func (h *CheckoutHandler) RequestPaymentIntent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	secret, err := h.checkout.RequestPaymentIntent(ctx, sessionFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, PaymentIntentResponseDTO{ClientSecret: secret})
}

// POST /api/v1/checkout/place
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	placement, err := h.checkout.PlaceOrder(ctx, sessionFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, placement)
}

// POST /api/v1/checkout/complete answers 201 for a new order and 200 when the payment was already recorded.
func (h *CheckoutHandler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CompleteOrderRequestDTO
	if err := decodeAndValidate(r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	order, created, err := h.checkout.CompleteOrder(ctx, sessionFromContext(r.Context()), &domain.PaymentConfirmation{
		PaymentIntentRef: req.PaymentIntentRef,
		Succeeded:        req.Succeeded,
		ChargeID:         req.ChargeID,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if !created {
		respondJSON(w, http.StatusOK, order)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

// GET /api/v1/orders
func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	list, err := h.checkout.ListOrders(ctx, sessionFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []*domain.Order{}
	}
	respondJSON(w, http.StatusOK, list)
}

// GET /api/v1/orders/{order_id}
func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := idParam(r, "order_id")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	order, err := h.checkout.GetOrder(ctx, sessionFromContext(r.Context()), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
