package identity

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/spud29/clancys-outdoors-website/internal/domain"
)

// Transition reconciles cart ownership when a caller crosses the
// anonymous/authenticated boundary.
type Transition struct {
	carts  cartService
	merge  bool
	logger *log.Logger
}

type cartService interface {
	GetOrCreate(ctx context.Context, customerID, sessionID *string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error)
	Clear(ctx context.Context, cartID string) (*domain.Cart, error)
}

// NewTransition builds the handler. mergeOnLogin selects whether anonymous
// cart items are folded into the customer cart at login; when off the
// anonymous cart is simply discarded.
func NewTransition(carts cartService, mergeOnLogin bool, logger *log.Logger) *Transition {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Transition{carts: carts, merge: mergeOnLogin, logger: logger}
}

// Login loads the cart scoped to the now-known customer. The anonymous cart
// is cleared either way: under the merge policy its items are added to the
// customer cart first, each re-checked against the catalog, with unavailable
// products dropped rather than failing the login.
func (t *Transition) Login(ctx context.Context, sessionID *string, customerID string) (*domain.Cart, error) {
	custCart, err := t.carts.GetOrCreate(ctx, &customerID, nil)
	if err != nil {
		return nil, err
	}
	if sessionID == nil || *sessionID == "" {
		return custCart, nil
	}

	anonCart, err := t.carts.GetOrCreate(ctx, nil, sessionID)
	if err != nil {
		return nil, err
	}

	if t.merge {
		for _, item := range anonCart.Items {
			if _, err := t.carts.AddItem(ctx, custCart.ID, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, domain.ErrProductUnavailable) {
					t.logger.Printf("identity: login merge dropped product=%s cart=%s", item.ProductID, custCart.ID)
					continue
				}
				return nil, err
			}
		}
	}

	if _, err := t.carts.Clear(ctx, anonCart.ID); err != nil {
		return nil, err
	}

	return t.carts.GetOrCreate(ctx, &customerID, nil)
}

// Logout invalidates the authenticated identity. The caller falls back to a
// fresh anonymous session; the customer cart stays persisted for their next
// login.
func (t *Transition) Logout(ctx context.Context) string {
	return NewSessionID()
}
