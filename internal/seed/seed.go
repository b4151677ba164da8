package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	SKU          string
	Name         string
	RegularPrice string
	SalePrice    string
	InStock      bool
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			SKU:          "CO-AUGER-8",
			Name:         "8\" Ice Auger",
			RegularPrice: "299.99",
			SalePrice:    "249.99",
			InStock:      true,
		},
		{
			SKU:          "CO-SHELTER-2P",
			Name:         "Two-Person Thermal Ice Shelter",
			RegularPrice: "449.99",
			InStock:      true,
		},
		{
			SKU:          "CO-JIGROD-28",
			Name:         "28\" Medium-Light Jig Rod",
			RegularPrice: "39.99",
			InStock:      true,
		},
		{
			SKU:          "CO-TIPUP",
			Name:         "Rail Tip-Up",
			RegularPrice: "24.99",
			InStock:      true,
		},
		{
			SKU:          "CO-SLED-JUMBO",
			Name:         "Jumbo Utility Sled",
			RegularPrice: "89.99",
			InStock:      false, // backordered; handy for unavailable-product testing
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
	}

	if err := ensureCustomer(ctx, pool, "demo@clancysoutdoors.com", "Demo1234", "Demo", "Customer"); err != nil {
		return fmt.Errorf("ensure customer: %w", err)
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (sku, name, regular_price, sale_price, in_stock)
VALUES ($1, $2, $3, NULLIF($4, '')::numeric, $5)
ON CONFLICT (sku) DO UPDATE SET
    name = EXCLUDED.name,
    regular_price = EXCLUDED.regular_price,
    sale_price = EXCLUDED.sale_price,
    in_stock = EXCLUDED.in_stock
`
	_, err := pool.Exec(ctx, q, p.SKU, p.Name, p.RegularPrice, p.SalePrice, p.InStock)
	return err
}

func ensureCustomer(ctx context.Context, pool *pgxpool.Pool, email, password, first, last string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO customers (email, password_hash, first_name, last_name)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO NOTHING
`
	_, err = pool.Exec(ctx, q, email, string(hash), first, last)
	return err
}
