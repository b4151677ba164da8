package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is the single currency the storefront sells in.
const Currency = "USD"

// Cart is owned by exactly one identity: a customer or an anonymous session,
// never both. The empty cart row persists for reuse after a clear.
type Cart struct {
	ID         string     `json:"id"`
	CustomerID *string    `json:"customerId,omitempty"`
	SessionID  *string    `json:"-"`
	Items      []CartItem `json:"items"`
	Totals     CartTotals `json:"totals"`
	Currency   string     `json:"currency"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// CartItem carries a denormalized price snapshot taken at the time of the
// last mutation. Unique per (cart, product).
type CartItem struct {
	ID         string          `json:"id"`
	CartID     string          `json:"cartId"`
	ProductID  string          `json:"productId"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	AddedAt    time.Time       `json:"addedAt"`
}

// CartTotals are always server-computed. Total == Subtotal + Tax + Shipping
// after every recompute.
type CartTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// ZeroTotals returns totals with every amount set to zero.
func ZeroTotals() CartTotals {
	return CartTotals{
		Subtotal: decimal.Zero,
		Tax:      decimal.Zero,
		Shipping: decimal.Zero,
		Total:    decimal.Zero,
	}
}

// EmptyCart is what a caller with no identity sees: no id, no items, zero totals.
func EmptyCart() Cart {
	return Cart{
		Items:     []CartItem{},
		Totals:    ZeroTotals(),
		Currency:  Currency,
		UpdatedAt: time.Now().UTC(),
	}
}

// Item returns the line item for productID, or nil if absent.
func (c *Cart) Item(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}
