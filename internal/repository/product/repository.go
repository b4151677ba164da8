package product

import (
	"context"

	"github.com/spud29/clancys-outdoors-website/internal/domain"
)

// Repository is the catalog lookup the cart core consumes: current prices
// and stock status by product id. Owned by the catalog, read-only here.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)
}
