package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog projection the cart core needs. Images, categories
// and the rest of the catalog belong to the product service.
type Product struct {
	ID           string           `json:"id"`
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	RegularPrice decimal.Decimal  `json:"regularPrice"`
	SalePrice    *decimal.Decimal `json:"salePrice,omitempty"`
	InStock      bool             `json:"inStock"`
	CreatedAt    time.Time        `json:"createdAt"`
}
