package http

import (
	"context"
	"net/http"
	"time"

	"github.com/hortsatta/dot-games-sub000/internal/domain"
)

type CartAPI interface {
	GetCart(ctx context.Context, sess domain.Session) (*domain.Cart, error)
	AddItem(ctx context.Context, sess domain.Session, productID int64, quantity int) (*domain.Cart, int, error)
	SubtractItem(ctx context.Context, sess domain.Session, productID int64, quantity int) (*domain.Cart, int, error)
	RemoveItem(ctx context.Context, sess domain.Session, productID int64) (*domain.Cart, bool, error)
	EmptyCart(ctx context.Context, sess domain.Session) (*domain.Cart, error)
	MergeGuestCart(ctx context.Context, sess domain.Session) (*domain.Cart, error)
}

type CartHandler struct {
	carts   CartAPI
	timeout time.Duration
}

func NewCartHandler(carts CartAPI, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Quantity  int   `json:"quantity" validate:"gte=0,lte=99"`
}

type SubtractItemRequestDTO struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=99"`
}

type CartItemDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CartResponseDTO leaves out the payment intent fields kept on the row.
type CartResponseDTO struct {
	ID        int64         `json:"id,omitempty"`
	State     string        `json:"state"`
	ItemCount int           `json:"item_count"`
	Items     []CartItemDTO `json:"items"`
}

type CartMutationResponseDTO struct {
	Cart     CartResponseDTO `json:"cart"`
	Quantity int             `json:"quantity"`
}

type CartRemovalResponseDTO struct {
	Cart    CartResponseDTO `json:"cart"`
	Removed bool            `json:"removed"`
}

func toCartResponse(c *domain.Cart) CartResponseDTO {
	items := make([]CartItemDTO, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, CartItemDTO{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return CartResponseDTO{
		ID:        c.ID,
		State:     c.State().String(),
		ItemCount: c.ItemCount(),
		Items:     items,
	}
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, err := h.carts.GetCart(ctx, sessionFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := decodeAndValidate(r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	cart, qty, err := h.carts.AddItem(ctx, sessionFromContext(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, CartMutationResponseDTO{Cart: toCartResponse(cart), Quantity: qty})
}

// POST /api/v1/cart/items/{product_id}/subtract
func (h *CartHandler) SubtractItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := idParam(r, "product_id")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	var req SubtractItemRequestDTO
	if err := decodeAndValidate(r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	cart, qty, err := h.carts.SubtractItem(ctx, sessionFromContext(r.Context()), productID, req.Quantity)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, CartMutationResponseDTO{Cart: toCartResponse(cart), Quantity: qty})
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := idParam(r, "product_id")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	cart, removed, err := h.carts.RemoveItem(ctx, sessionFromContext(r.Context()), productID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, CartRemovalResponseDTO{Cart: toCartResponse(cart), Removed: removed})
}

// DELETE /api/v1/cart
func (h *CartHandler) EmptyCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, err := h.carts.EmptyCart(ctx, sessionFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

// POST /api/v1/cart/merge
func (h *CartHandler) MergeGuestCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, err := h.carts.MergeGuestCart(ctx, sessionFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(cart))
}
