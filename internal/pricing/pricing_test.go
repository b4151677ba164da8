package pricing

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/spud29/clancys-outdoors-website/internal/domain"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool {
	return a.Equal(b)
})

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func item(productID, unit string, qty int) domain.CartItem {
	u := dec(unit)
	return domain.CartItem{
		ProductID:  productID,
		Quantity:   qty,
		UnitPrice:  u,
		TotalPrice: LineTotal(u, qty),
	}
}

func TestUnitPriceRegular(t *testing.T) {
	p := domain.Product{ID: "p1", RegularPrice: dec("19.99"), InStock: true}
	got, err := UnitPrice(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(dec("19.99")) {
		t.Fatalf("unexpected unit price %s", got)
	}
}

func TestUnitPriceSaleWins(t *testing.T) {
	p := domain.Product{ID: "p1", RegularPrice: dec("19.99"), SalePrice: decPtr("14.99"), InStock: true}
	got, err := UnitPrice(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(dec("14.99")) {
		t.Fatalf("expected sale price, got %s", got)
	}
}

func TestUnitPriceIgnoresZeroSalePrice(t *testing.T) {
	p := domain.Product{ID: "p1", RegularPrice: dec("19.99"), SalePrice: decPtr("0"), InStock: true}
	got, err := UnitPrice(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(dec("19.99")) {
		t.Fatalf("expected regular price, got %s", got)
	}
}

func TestUnitPriceOutOfStock(t *testing.T) {
	p := domain.Product{ID: "p1", RegularPrice: dec("19.99"), InStock: false}
	_, err := UnitPrice(p)
	if !errors.Is(err, domain.ErrProductUnavailable) {
		t.Fatalf("expected ErrProductUnavailable, got %v", err)
	}
}

func TestLineTotal(t *testing.T) {
	got := LineTotal(dec("9.99"), 3)
	if !got.Equal(dec("29.97")) {
		t.Fatalf("unexpected line total %s", got)
	}
}

func TestShippingFlatBelowThreshold(t *testing.T) {
	items := []domain.CartItem{item("p1", "10.00", 1)}
	got := Shipping(dec("49.99"), items)
	if !got.Equal(dec("9.99")) {
		t.Fatalf("expected flat fee, got %s", got)
	}
}

func TestShippingFreeAtThreshold(t *testing.T) {
	items := []domain.CartItem{item("p1", "50.00", 1)}
	got := Shipping(dec("50"), items)
	if !got.IsZero() {
		t.Fatalf("expected free shipping at threshold, got %s", got)
	}
}

func TestShippingEmptyCart(t *testing.T) {
	got := Shipping(decimal.Zero, nil)
	if !got.IsZero() {
		t.Fatalf("empty cart must not be charged shipping, got %s", got)
	}
}

func TestTotalsEmpty(t *testing.T) {
	got := Totals(nil)
	if diff := cmp.Diff(domain.ZeroTotals(), got, decimalComparer); diff != "" {
		t.Fatalf("totals mismatch (-want +got):\n%s", diff)
	}
}

func TestTotalsSingleItem(t *testing.T) {
	items := []domain.CartItem{item("p1", "19.99", 2)}
	want := domain.CartTotals{
		Subtotal: dec("39.98"),
		Tax:      dec("3.20"), // 39.98 * 0.08 = 3.1984, rounded
		Shipping: dec("9.99"),
		Total:    dec("53.17"),
	}
	got := Totals(items)
	if diff := cmp.Diff(want, got, decimalComparer); diff != "" {
		t.Fatalf("totals mismatch (-want +got):\n%s", diff)
	}
}

func TestTotalsFreeShipping(t *testing.T) {
	items := []domain.CartItem{item("p1", "29.99", 2)}
	want := domain.CartTotals{
		Subtotal: dec("59.98"),
		Tax:      dec("4.80"),
		Shipping: decimal.Zero,
		Total:    dec("64.78"),
	}
	got := Totals(items)
	if diff := cmp.Diff(want, got, decimalComparer); diff != "" {
		t.Fatalf("totals mismatch (-want +got):\n%s", diff)
	}
}

func TestTotalsConsistency(t *testing.T) {
	carts := [][]domain.CartItem{
		nil,
		{item("p1", "0.01", 1)},
		{item("p1", "19.99", 2), item("p2", "5.49", 1)},
		{item("p1", "49.99", 1)},
		{item("p1", "50.00", 1)},
		{item("p1", "299.99", 3), item("p2", "0.99", 100)},
	}
	for i, items := range carts {
		got := Totals(items)
		sum := got.Subtotal.Add(got.Tax).Add(got.Shipping)
		if !got.Total.Equal(sum) {
			t.Fatalf("cart %d: total %s != subtotal+tax+shipping %s", i, got.Total, sum)
		}
		if got.Subtotal.IsNegative() || got.Tax.IsNegative() || got.Shipping.IsNegative() || got.Total.IsNegative() {
			t.Fatalf("cart %d: negative amount in %+v", i, got)
		}
	}
}
