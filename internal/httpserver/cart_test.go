package httpserver

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/spud29/clancys-outdoors-website/internal/domain"
)

func TestGetCartNoIdentityReturnsEmptyCart(t *testing.T) {
	svc := &stubCartService{}
	router := testRouter(t, Deps{CartSvc: svc})

	rec := doRequest(t, router, http.MethodGet, "/cart", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	data, ok := env["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected cart data, got %q", rec.Body.String())
	}
	if data["id"] != "" {
		t.Fatalf("expected empty cart id, got %v", data["id"])
	}
	items, ok := data["items"].([]interface{})
	if !ok || len(items) != 0 {
		t.Fatalf("expected empty items, got %v", data["items"])
	}
	if svc.lastCustomerID != nil || svc.lastSessionID != nil {
		t.Fatalf("service must not be called without identity")
	}
}

func TestGetCartWithSessionIdentity(t *testing.T) {
	svc := &stubCartService{cart: &domain.Cart{ID: "c1", Items: []domain.CartItem{}, Currency: domain.Currency}}
	router := testRouter(t, Deps{CartSvc: svc})

	rec := doRequest(t, router, http.MethodGet, "/cart", "", sessionCookieValue("sess-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastSessionID == nil || *svc.lastSessionID != "sess-1" {
		t.Fatalf("expected session identity, got %+v", svc.lastSessionID)
	}
	if svc.lastCustomerID != nil {
		t.Fatalf("customer identity must be nil for anonymous call")
	}
}

func TestGetCartCustomerWinsOverSession(t *testing.T) {
	svc := &stubCartService{cart: &domain.Cart{ID: "c1"}}
	router := testRouter(t, Deps{CartSvc: svc})

	doRequest(t, router, http.MethodGet, "/cart", "", customerCookieValue("cust-1"), sessionCookieValue("sess-1"))
	if svc.lastCustomerID == nil || *svc.lastCustomerID != "cust-1" {
		t.Fatalf("expected customer identity, got %+v", svc.lastCustomerID)
	}
	if svc.lastSessionID != nil {
		t.Fatalf("session must be ignored when customer cookie present")
	}
}

func TestPostCartNoIdentity(t *testing.T) {
	router := testRouter(t, Deps{CartSvc: &stubCartService{}})
	rec := doRequest(t, router, http.MethodPost, "/cart", `{"action":"add","productId":"p1","quantity":1}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != codeUnauthorized {
		t.Fatalf("expected %s, got %s", codeUnauthorized, code)
	}
}

func TestPostCartMissingFields(t *testing.T) {
	router := testRouter(t, Deps{CartSvc: &stubCartService{}})
	rec := doRequest(t, router, http.MethodPost, "/cart", `{"action":"add"}`, sessionCookieValue("s"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != codeValidation {
		t.Fatalf("expected %s, got %s", codeValidation, code)
	}
}

func TestPostCartInvalidAction(t *testing.T) {
	router := testRouter(t, Deps{CartSvc: &stubCartService{cart: &domain.Cart{ID: "c1"}}})
	rec := doRequest(t, router, http.MethodPost, "/cart", `{"action":"merge","productId":"p1"}`, sessionCookieValue("s"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPostCartAddRequiresPositiveQuantity(t *testing.T) {
	router := testRouter(t, Deps{CartSvc: &stubCartService{cart: &domain.Cart{ID: "c1"}}})
	for _, body := range []string{
		`{"action":"add","productId":"p1"}`,
		`{"action":"add","productId":"p1","quantity":0}`,
	} {
		rec := doRequest(t, router, http.MethodPost, "/cart", body, sessionCookieValue("s"))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestPostCartAddSuccess(t *testing.T) {
	svc := &stubCartService{cart: &domain.Cart{ID: "c1", Items: []domain.CartItem{}}}
	router := testRouter(t, Deps{CartSvc: svc})

	rec := doRequest(t, router, http.MethodPost, "/cart", `{"action":"add","productId":"p1","quantity":2}`, sessionCookieValue("s"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastOp != "add" || svc.lastCartID != "c1" || svc.lastProductID != "p1" || svc.lastQty != 2 {
		t.Fatalf("add not dispatched as expected: %+v", svc)
	}
}

func TestPostCartUpdateZeroQuantityAllowed(t *testing.T) {
	svc := &stubCartService{cart: &domain.Cart{ID: "c1"}}
	router := testRouter(t, Deps{CartSvc: svc})

	rec := doRequest(t, router, http.MethodPost, "/cart", `{"action":"update","productId":"p1","quantity":0}`, sessionCookieValue("s"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastOp != "update" || svc.lastQty != 0 {
		t.Fatalf("expected update with qty 0, got op=%s qty=%d", svc.lastOp, svc.lastQty)
	}
}

func TestPostCartRemoveIgnoresQuantity(t *testing.T) {
	svc := &stubCartService{cart: &domain.Cart{ID: "c1"}}
	router := testRouter(t, Deps{CartSvc: svc})

	rec := doRequest(t, router, http.MethodPost, "/cart", `{"action":"remove","productId":"p1"}`, sessionCookieValue("s"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastOp != "remove" || svc.lastProductID != "p1" {
		t.Fatalf("remove not dispatched as expected: %+v", svc)
	}
}

func TestPostCartProductUnavailable(t *testing.T) {
	svc := &stubCartService{cart: &domain.Cart{ID: "c1"}}
	// GetOrCreate succeeds, the mutation fails.
	failing := &failFirstMutation{stubCartService: svc, mutationErr: domain.ErrProductUnavailable}

	router := testRouter(t, Deps{CartSvc: failing})
	rec := doRequest(t, router, http.MethodPost, "/cart", `{"action":"add","productId":"p1","quantity":1}`, sessionCookieValue("s"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != codeProductUnavailable {
		t.Fatalf("expected %s, got %s", codeProductUnavailable, code)
	}
}

func TestPostCartInternalError(t *testing.T) {
	svc := &stubCartService{cart: &domain.Cart{ID: "c1"}}
	failing := &failFirstMutation{stubCartService: svc, mutationErr: errors.New("db down")}
	router := testRouter(t, Deps{CartSvc: failing})

	rec := doRequest(t, router, http.MethodPost, "/cart", `{"action":"add","productId":"p1","quantity":1}`, sessionCookieValue("s"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != codeInternal {
		t.Fatalf("expected %s, got %s", codeInternal, code)
	}
}

func TestDeleteCartNoIdentity(t *testing.T) {
	router := testRouter(t, Deps{CartSvc: &stubCartService{}})
	rec := doRequest(t, router, http.MethodDelete, "/cart", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestDeleteCartClears(t *testing.T) {
	svc := &stubCartService{cart: &domain.Cart{ID: "c1"}}
	router := testRouter(t, Deps{CartSvc: svc})

	rec := doRequest(t, router, http.MethodDelete, "/cart", "", sessionCookieValue("s"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastOp != "clear" || svc.lastCartID != "c1" {
		t.Fatalf("clear not dispatched as expected: %+v", svc)
	}
}

// failFirstMutation lets GetOrCreate succeed while mutations fail, to test
// error translation separately from identity resolution.
type failFirstMutation struct {
	*stubCartService
	mutationErr error
}

func (f *failFirstMutation) AddItem(_ context.Context, _, _ string, _ int) (*domain.Cart, error) {
	return nil, f.mutationErr
}
