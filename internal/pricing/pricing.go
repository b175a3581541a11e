// Package pricing derives discounted unit prices and order totals. All functions are pure.
package pricing

import (
	"github.com/hortsatta/dot-games-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Line is the minimal input for totals: a final unit price and a quantity.
type Line struct {
	FinalUnitPrice decimal.Decimal
	Quantity       int
}

// ClampDiscount forces upstream discount values into [0,100].
func ClampDiscount(discountPercent int) int {
	if discountPercent < 0 {
		return 0
	}
	if discountPercent > 100 {
		return 100
	}
	return discountPercent
}

// ComputeFinalPrice applies the clamped discount to basePrice and rounds to cents, half-up.
func ComputeFinalPrice(basePrice decimal.Decimal, discountPercent int) decimal.Decimal {
	d := ClampDiscount(discountPercent)
	if d == 0 {
		return basePrice.Round(2)
	}
	factor := decimal.NewFromInt(int64(100 - d))
	return basePrice.Mul(factor).Div(hundred).Round(2)
}

// ComputeOrderTotals sums line totals and adds shippingFee. The fee is added even when lines is empty.
func ComputeOrderTotals(lines []Line, shippingFee decimal.Decimal) domain.OrderTotals {
	subtotal := decimal.Zero
	count := 0
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		count += l.Quantity
		subtotal = subtotal.Add(LineTotal(l.FinalUnitPrice, l.Quantity))
	}
	return domain.OrderTotals{
		ItemCount:   count,
		Subtotal:    subtotal,
		ShippingFee: shippingFee,
		Total:       subtotal.Add(shippingFee),
	}
}

// LineTotal is the unit price times quantity, unrounded past the unit price's cents.
func LineTotal(finalUnitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return finalUnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// ToMinorUnits converts an amount to integer cents, rounding half-up.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// PriceLine joins a cart quantity with a product snapshot.
func PriceLine(p *domain.Product, quantity int) domain.CheckoutLineItem {
	final := ComputeFinalPrice(p.BasePrice, p.DiscountPercent)
	return domain.CheckoutLineItem{
		ProductID:       p.ID,
		Name:            p.Name,
		Quantity:        quantity,
		BasePrice:       p.BasePrice,
		DiscountPercent: ClampDiscount(p.DiscountPercent),
		FinalUnitPrice:  final,
		LineTotal:       LineTotal(final, quantity),
	}
}

// Lines projects checkout line items onto the inputs of ComputeOrderTotals.
func Lines(items []domain.CheckoutLineItem) []Line {
	lines := make([]Line, len(items))
	for i, item := range items {
		lines[i] = Line{FinalUnitPrice: item.FinalUnitPrice, Quantity: item.Quantity}
	}
	return lines
}
