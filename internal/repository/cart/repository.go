package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/spud29/clancys-outdoors-website/internal/domain"
)

// Repository persists carts. Every mutating method applies the item change
// and the totals recompute inside one transaction so items and totals can
// never be observed inconsistent.
type Repository interface {
	// GetOrCreate looks up the cart for exactly one identity, creating an
	// empty cart scoped to it if none exists. Safe under concurrent
	// first-requests for the same identity.
	GetOrCreate(ctx context.Context, customerID, sessionID *string) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)

	// AddItem merges quantity into an existing line for the product, or
	// inserts a new line. The unit price is the current snapshot price and
	// replaces any previously stored one.
	AddItem(ctx context.Context, cartID, productID string, quantity int, unitPrice decimal.Decimal) error
	// SetItemQuantity replaces the line's quantity outright. quantity <= 0
	// removes the line.
	SetItemQuantity(ctx context.Context, cartID, productID string, quantity int, unitPrice decimal.Decimal) error
	// RemoveItem deletes the line if present; absent is not an error.
	RemoveItem(ctx context.Context, cartID, productID string) error
	// Clear deletes all lines and zeroes totals. The cart row remains.
	Clear(ctx context.Context, cartID string) error
}
