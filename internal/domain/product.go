package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog row checkout prices against.
type Product struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	BasePrice       decimal.Decimal `json:"base_price"`
	DiscountPercent int             `json:"discount_percent"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
}
