// Package cart owns the cart mutation operations. Every operation checks
// the catalog first, applies the item change together with a totals
// recompute through the repository, and returns the freshly loaded cart.
package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/spud29/clancys-outdoors-website/internal/domain"
	"github.com/spud29/clancys-outdoors-website/internal/pricing"
)

// MaxQuantity bounds a single line item, matching the storefront's
// validation layer.
const MaxQuantity = 100

type Service struct {
	repo    cartRepo
	catalog catalog
}

type cartRepo interface {
	GetOrCreate(ctx context.Context, customerID, sessionID *string) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID, productID string, quantity int, unitPrice decimal.Decimal) error
	SetItemQuantity(ctx context.Context, cartID, productID string, quantity int, unitPrice decimal.Decimal) error
	RemoveItem(ctx context.Context, cartID, productID string) error
	Clear(ctx context.Context, cartID string) error
}

type catalog interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartRepo, catalog catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// GetOrCreate resolves the cart for exactly one identity, creating an empty
// one on first access.
func (s *Service) GetOrCreate(ctx context.Context, customerID, sessionID *string) (*domain.Cart, error) {
	return s.repo.GetOrCreate(ctx, customerID, sessionID)
}

// AddItem merges quantity into any existing line for the product. The add is
// rejected outright when the catalog reports the product missing or out of
// stock; the cart is left untouched in that case.
func (s *Service) AddItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 || quantity > MaxQuantity {
		return nil, fmt.Errorf("%w: quantity must be between 1 and %d", domain.ErrValidation, MaxQuantity)
	}
	unitPrice, err := s.currentUnitPrice(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddItem(ctx, cartID, productID, quantity, unitPrice); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cartID)
}

// UpdateQuantity sets the line's quantity outright. Zero removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 0 || quantity > MaxQuantity {
		return nil, fmt.Errorf("%w: quantity must be between 0 and %d", domain.ErrValidation, MaxQuantity)
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, cartID, productID)
	}
	unitPrice, err := s.currentUnitPrice(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetItemQuantity(ctx, cartID, productID, quantity, unitPrice); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cartID)
}

// RemoveItem deletes the line. Removing an absent product is a no-op.
func (s *Service) RemoveItem(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	if err := s.repo.RemoveItem(ctx, cartID, productID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cartID)
}

// Clear empties the cart and zeroes its totals. Always succeeds on an
// existing cart, including one already empty.
func (s *Service) Clear(ctx context.Context, cartID string) (*domain.Cart, error) {
	if err := s.repo.Clear(ctx, cartID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cartID)
}

func (s *Service) currentUnitPrice(ctx context.Context, productID string) (decimal.Decimal, error) {
	p, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		if err == domain.ErrNotFound {
			return decimal.Zero, domain.ErrProductUnavailable
		}
		return decimal.Zero, err
	}
	return pricing.UnitPrice(*p)
}
