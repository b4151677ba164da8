// Package pricing computes cart monetary values. Every function is pure:
// the cart service calls Totals after each mutation and the result is the
// only path through which cart totals change.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/spud29/clancys-outdoors-website/internal/domain"
)

// Policy constants. The free-shipping threshold is the server-side value;
// marketing copy elsewhere quotes $99 but the recompute has always used $50.
var (
	TaxRate               = decimal.RequireFromString("0.08")
	FreeShippingThreshold = decimal.RequireFromString("50")
	FlatShippingFee       = decimal.RequireFromString("9.99")
)

// UnitPrice returns the sale price when one is set, otherwise the regular
// price. Out-of-stock products have no price: callers must not add them.
func UnitPrice(p domain.Product) (decimal.Decimal, error) {
	if !p.InStock {
		return decimal.Zero, domain.ErrProductUnavailable
	}
	if p.SalePrice != nil && p.SalePrice.IsPositive() {
		return *p.SalePrice, nil
	}
	return p.RegularPrice, nil
}

// LineTotal is unitPrice * quantity, exact.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Subtotal sums the stored line totals. Items are expected to have been
// priced against a single catalog snapshot at mutation time.
func Subtotal(items []domain.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.TotalPrice)
	}
	return sum
}

// Tax applies the flat tax rate, rounded to cents.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate).Round(2)
}

// Shipping is free once the subtotal meets the threshold, otherwise flat.
// An empty cart ships nothing and pays nothing.
func Shipping(subtotal decimal.Decimal, items []domain.CartItem) decimal.Decimal {
	if len(items) == 0 {
		return decimal.Zero
	}
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShippingFee
}

// Totals recomputes every cart-level amount from the current item set.
// Tax and shipping always derive from the post-mutation subtotal.
func Totals(items []domain.CartItem) domain.CartTotals {
	subtotal := Subtotal(items)
	tax := Tax(subtotal)
	shipping := Shipping(subtotal, items)
	return domain.CartTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}
