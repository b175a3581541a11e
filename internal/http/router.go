package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hortsatta/dot-games-sub000/internal/catalog"
)

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	SecureCookies      bool
}

type Dependencies struct {
	Catalog   catalog.Catalog
	Carts     CartAPI
	WishLists WishListAPI
	Checkout  CheckoutAPI
	// Ready is checked by /health when set.
	Ready func(ctx context.Context) error
}

const defaultRequestTimeout = 30 * time.Second

func NewRouter(deps Dependencies, cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	products := NewProductHandler(deps.Catalog, cfg.RequestTimeout)
	carts := NewCartHandler(deps.Carts, cfg.RequestTimeout)
	wishLists := NewWishListHandler(deps.WishLists, cfg.RequestTimeout)
	checkout := NewCheckoutHandler(deps.Checkout, cfg.RequestTimeout)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.RequestSize(cfg.MaxRequestBodySize))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ready != nil {
			if err := deps.Ready(r.Context()); err != nil {
				respondError(w, http.StatusServiceUnavailable, "not_ready", err.Error())
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SessionMiddleware(cfg.SecureCookies))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.ListProducts)
			r.Get("/{product_id}", products.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", carts.GetCart)
			r.Delete("/", carts.EmptyCart)
			r.Post("/items", carts.AddItem)
			r.Post("/items/{product_id}/subtract", carts.SubtractItem)
			r.Delete("/items/{product_id}", carts.RemoveItem)
			r.Post("/merge", carts.MergeGuestCart)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishLists.Get)
			r.Delete("/", wishLists.Empty)
			r.Post("/{product_id}/toggle", wishLists.Toggle)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkout.PrepareCheckout)
			r.Post("/payment-intent", checkout.RequestPaymentIntent)
			r.Post("/place", checkout.PlaceOrder)
			r.Post("/complete", checkout.CompleteOrder)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", checkout.ListOrders)
			r.Get("/{order_id}", checkout.GetOrder)
		})
	})

	return r
}
