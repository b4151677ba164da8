package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/spud29/clancys-outdoors-website/internal/domain"
	"github.com/spud29/clancys-outdoors-website/internal/pricing"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const cartColumns = `id::text, customer_id::text, session_id, currency, subtotal, tax, shipping, total, updated_at`

func (r *postgresRepo) GetOrCreate(ctx context.Context, customerID, sessionID *string) (*domain.Cart, error) {
	if (customerID == nil) == (sessionID == nil) {
		return nil, domain.ErrUnauthorized
	}

	// Insert-then-select: the partial unique indexes on customer_id and
	// session_id make concurrent first-requests collapse onto one row.
	if customerID != nil {
		if _, err := r.pool.Exec(ctx, `
INSERT INTO carts (customer_id, currency)
VALUES ($1, $2)
ON CONFLICT (customer_id) WHERE customer_id IS NOT NULL DO NOTHING
`, *customerID, domain.Currency); err != nil {
			return nil, err
		}
		return r.fetchCart(ctx, `
SELECT `+cartColumns+`
FROM carts
WHERE customer_id = $1
`, *customerID)
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO carts (session_id, currency)
VALUES ($1, $2)
ON CONFLICT (session_id) WHERE session_id IS NOT NULL DO NOTHING
`, *sessionID, domain.Currency); err != nil {
		return nil, err
	}
	return r.fetchCart(ctx, `
SELECT `+cartColumns+`
FROM carts
WHERE session_id = $1
`, *sessionID)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	return r.fetchCart(ctx, `
SELECT `+cartColumns+`
FROM carts
WHERE id = $1
`, id)
}

func (r *postgresRepo) AddItem(ctx context.Context, cartID, productID string, quantity int, unitPrice decimal.Decimal) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var existingQty int
	err = tx.QueryRow(ctx, `
SELECT quantity
FROM cart_items
WHERE cart_id = $1 AND product_id = $2
FOR UPDATE
`, cartID, productID).Scan(&existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if err == nil {
		newQty := existingQty + quantity
		newTotal := pricing.LineTotal(unitPrice, newQty)
		if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1, unit_price = $2, total_price = $3
WHERE cart_id = $4 AND product_id = $5
`, newQty, unitPrice, newTotal, cartID, productID); err != nil {
			return err
		}
	} else {
		total := pricing.LineTotal(unitPrice, quantity)
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, product_id, quantity, unit_price, total_price)
VALUES ($1, $2, $3, $4, $5)
`, cartID, productID, quantity, unitPrice, total); err != nil {
			return err
		}
	}

	if err := recomputeTotals(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) SetItemQuantity(ctx context.Context, cartID, productID string, quantity int, unitPrice decimal.Decimal) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if quantity <= 0 {
		if _, err := tx.Exec(ctx, `
DELETE FROM cart_items
WHERE cart_id = $1 AND product_id = $2
`, cartID, productID); err != nil {
			return err
		}
	} else {
		total := pricing.LineTotal(unitPrice, quantity)
		cmd, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1, unit_price = $2, total_price = $3
WHERE cart_id = $4 AND product_id = $5
`, quantity, unitPrice, total, cartID, productID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
	}

	if err := recomputeTotals(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) RemoveItem(ctx context.Context, cartID, productID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
DELETE FROM cart_items
WHERE cart_id = $1 AND product_id = $2
`, cartID, productID); err != nil {
		return err
	}

	if err := recomputeTotals(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) Clear(ctx context.Context, cartID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
DELETE FROM cart_items
WHERE cart_id = $1
`, cartID); err != nil {
		return err
	}

	if err := recomputeTotals(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) fetchCart(ctx context.Context, cartQuery string, args ...interface{}) (*domain.Cart, error) {
	var cart domain.Cart
	var customerID *string
	var sessionID *string
	err := r.pool.QueryRow(ctx, cartQuery, args...).Scan(
		&cart.ID,
		&customerID,
		&sessionID,
		&cart.Currency,
		&cart.Totals.Subtotal,
		&cart.Totals.Tax,
		&cart.Totals.Shipping,
		&cart.Totals.Total,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	cart.CustomerID = customerID
	cart.SessionID = sessionID

	const itemsQuery = `
SELECT id::text, cart_id::text, product_id::text, quantity, unit_price, total_price, added_at
FROM cart_items
WHERE cart_id = $1
ORDER BY added_at ASC
`
	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart.Items = []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
			&item.AddedAt,
		); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

// recomputeTotals re-derives the cart-level amounts from the line items
// inside the caller's transaction and bumps updated_at.
func recomputeTotals(ctx context.Context, tx pgx.Tx, cartID string) error {
	rows, err := tx.Query(ctx, `
SELECT total_price
FROM cart_items
WHERE cart_id = $1
`, cartID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.TotalPrice); err != nil {
			return err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	totals := pricing.Totals(items)
	_, err = tx.Exec(ctx, `
UPDATE carts
SET subtotal = $1, tax = $2, shipping = $3, total = $4, updated_at = now()
WHERE id = $5
`, totals.Subtotal, totals.Tax, totals.Shipping, totals.Total, cartID)
	return err
}
