package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutLineItem is a cart line joined with the product price captured at checkout entry.
type CheckoutLineItem struct {
	ProductID       int64           `json:"product_id"`
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	BasePrice       decimal.Decimal `json:"base_price"`
	DiscountPercent int             `json:"discount_percent"`
	FinalUnitPrice  decimal.Decimal `json:"final_unit_price"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

type OrderTotals struct {
	ItemCount   int             `json:"item_count"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Total       decimal.Decimal `json:"total"`
}

// CheckoutView is the priced cart. PaymentIntentRef is set when the view was priced for that intent's amount.
type CheckoutView struct {
	CartID                int64              `json:"cart_id,omitempty"`
	OwnerID               string             `json:"owner_id"`
	PaymentIntentRef      string             `json:"payment_intent_ref,omitempty"`
	Items                 []CheckoutLineItem `json:"items"`
	Totals                OrderTotals        `json:"totals"`
	UnavailableProductIDs []int64            `json:"unavailable_product_ids,omitempty"`
	Currency              string             `json:"currency"`
	CapturedAt            time.Time          `json:"captured_at"`
}

// Matches reports whether the view was priced from exactly cart's lines and quantities.
func (v *CheckoutView) Matches(cart *Cart) bool {
	if cart == nil || v.OwnerID != cart.OwnerID || len(v.Items)+len(v.UnavailableProductIDs) != len(cart.Items) {
		return false
	}

	unavailable := make(map[int64]bool, len(v.UnavailableProductIDs))
	for _, id := range v.UnavailableProductIDs {
		unavailable[id] = true
	}
	priced := make(map[int64]int, len(v.Items))
	for _, item := range v.Items {
		priced[item.ProductID] = item.Quantity
	}

	for _, item := range cart.Items {
		if unavailable[item.ProductID] {
			continue
		}
		if q, ok := priced[item.ProductID]; !ok || q != item.Quantity {
			return false
		}
	}
	return true
}

// PaymentConfirmation is what the payment processor reports after collecting a charge.
type PaymentConfirmation struct {
	PaymentIntentRef string `json:"payment_intent_ref"`
	Succeeded        bool   `json:"succeeded"`
	ChargeID         string `json:"charge_id,omitempty"`
}

// Placement is the outcome of placing an order. Placed is false for an empty cart.
type Placement struct {
	Placed           bool   `json:"placed"`
	ClientSecret     string `json:"client_secret,omitempty"`
	PaymentIntentRef string `json:"payment_intent_ref,omitempty"`
	AmountMinor      int64  `json:"amount_minor,omitempty"`
}
