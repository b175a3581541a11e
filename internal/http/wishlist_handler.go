package http

import (
	"context"
	"net/http"
	"time"

	"github.com/hortsatta/dot-games-sub000/internal/domain"
)

type WishListAPI interface {
	Get(ctx context.Context, sess domain.Session) (*domain.WishList, error)
	Toggle(ctx context.Context, sess domain.Session, productID int64) (*domain.WishList, bool, error)
	Empty(ctx context.Context, sess domain.Session) (bool, error)
}

type WishListHandler struct {
	lists   WishListAPI
	timeout time.Duration
}

func NewWishListHandler(lists WishListAPI, timeout time.Duration) *WishListHandler {
	return &WishListHandler{lists: lists, timeout: timeout}
}

type WishListResponseDTO struct {
	ID         int64   `json:"id,omitempty"`
	ProductIDs []int64 `json:"product_ids"`
}

type ToggleResponseDTO struct {
	WishList WishListResponseDTO `json:"wish_list"`
	Present  bool                `json:"present"`
}

func toWishListResponse(l *domain.WishList) WishListResponseDTO {
	ids := l.ProductIDs
	if ids == nil {
		ids = []int64{}
	}
	return WishListResponseDTO{ID: l.ID, ProductIDs: ids}
}

// GET /api/v1/wishlist
func (h *WishListHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	list, err := h.lists.Get(ctx, sessionFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toWishListResponse(list))
}

// POST /api/v1/wishlist/{product_id}/toggle
func (h *WishListHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := idParam(r, "product_id")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	list, present, err := h.lists.Toggle(ctx, sessionFromContext(r.Context()), productID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ToggleResponseDTO{WishList: toWishListResponse(list), Present: present})
}

// DELETE /api/v1/wishlist
func (h *WishListHandler) Empty(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	changed, err := h.lists.Empty(ctx, sessionFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"emptied": changed})
}
