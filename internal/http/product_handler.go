package http

import (
	"context"
	"net/http"
	"time"

	"github.com/hortsatta/dot-games-sub000/internal/catalog"
	"github.com/hortsatta/dot-games-sub000/internal/domain"
	"github.com/hortsatta/dot-games-sub000/internal/pricing"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	catalog catalog.Catalog
	timeout time.Duration
}

func NewProductHandler(c catalog.Catalog, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: c,
		timeout: timeout,
	}
}

type ProductResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	BasePrice       decimal.Decimal `json:"base_price"`
	DiscountPercent int             `json:"discount_percent"`
	FinalPrice      decimal.Decimal `json:"final_price"`
	Active          bool            `json:"active"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		BasePrice:       p.BasePrice,
		DiscountPercent: pricing.ClampDiscount(p.DiscountPercent),
		FinalPrice:      pricing.ComputeFinalPrice(p.BasePrice, p.DiscountPercent),
		Active:          p.Active,
	}
}

// GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		handleServiceError(w, r, domain.Remote("list products", err))
		return
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /api/v1/products/{product_id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := idParam(r, "product_id")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	p, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(p))
}
