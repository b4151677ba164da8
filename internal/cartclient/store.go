// Package cartclient is the client-held mirror of a cart. Mutations apply
// locally first for a responsive UI and then reconcile against the server,
// which remains the only authority on money: totals here are advisory until
// a server response confirms them.
package cartclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Item is a locally tracked line: product and quantity only. Prices are
// never computed client-side.
type Item struct {
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// Totals mirrors the server-computed amounts. Pending marks them stale:
// a mutation has happened locally that the server has not yet confirmed.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
	Pending  bool            `json:"pending"`
}

// Snapshot is a point-in-time copy of the store for rendering or saving.
type Snapshot struct {
	ID        string    `json:"id"`
	Items     []Item    `json:"items"`
	Totals    Totals    `json:"totals"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store holds one cart mirror. Safe for concurrent use; each mutation's
// local update and sync run under the lock so operations never interleave.
type Store struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger

	mu      sync.Mutex
	snap    Snapshot
	lastErr error
}

// New builds an empty store. The http.Client carries the caller's identity
// cookies and timeout.
func New(baseURL string, client *http.Client, logger *log.Logger) *Store {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{
		baseURL: baseURL,
		client:  client,
		logger:  logger,
		snap:    emptySnapshot(),
	}
}

// NewFromSaved rehydrates a store from persisted state. Saved totals are
// discarded: they were only ever valid at save time.
func NewFromSaved(baseURL string, client *http.Client, logger *log.Logger, saved Snapshot) *Store {
	s := New(baseURL, client, logger)
	saved.Totals = Totals{Pending: true}
	if saved.Items == nil {
		saved.Items = []Item{}
	}
	s.snap = saved
	return s
}

// Snapshot returns a copy of the current local state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copySnapshot()
}

// LastError reports the most recent sync failure, cleared by the next
// successful server round-trip.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Load replaces local state wholesale with the server cart. Never a merge.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.fetchCart(ctx)
	if err != nil {
		s.lastErr = err
		s.logger.Printf("cartclient: load: %v", err)
		return err
	}
	s.replaceLocked(cart)
	return nil
}

// Add merges quantity into the local line for the product, then syncs.
func (s *Store) Add(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := false
	for i := range s.snap.Items {
		if s.snap.Items[i].ProductID == productID {
			s.snap.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		s.snap.Items = append(s.snap.Items, Item{ProductID: productID, Quantity: quantity, AddedAt: time.Now().UTC()})
	}
	s.markDirtyLocked()

	return s.syncLocked(ctx, cartAction{Action: "add", ProductID: productID, Quantity: &quantity})
}

// Remove drops the local line if present, then syncs. Absent is a no-op
// locally and on the server.
func (s *Store) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.snap.Items[:0]
	for _, item := range s.snap.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	s.snap.Items = kept
	s.markDirtyLocked()

	return s.syncLocked(ctx, cartAction{Action: "remove", ProductID: productID})
}

// UpdateQuantity sets the local line's quantity outright; zero or below
// removes it. Then syncs.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, productID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.snap.Items {
		if s.snap.Items[i].ProductID == productID {
			s.snap.Items[i].Quantity = quantity
			break
		}
	}
	s.markDirtyLocked()

	return s.syncLocked(ctx, cartAction{Action: "update", ProductID: productID, Quantity: &quantity})
}

// Clear wipes local state and clears the server cart.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Items = []Item{}
	s.markDirtyLocked()

	req, err := s.newRequest(ctx, http.MethodDelete, "/cart", nil)
	if err != nil {
		s.lastErr = err
		return err
	}
	if _, err := s.do(req); err != nil {
		s.lastErr = err
		s.logger.Printf("cartclient: clear: %v", err)
		return err
	}
	s.snap.Totals = Totals{}
	s.snap.UpdatedAt = time.Now().UTC()
	s.lastErr = nil
	return nil
}

// Reset drops all local state without touching the server. Used at logout,
// when the identity owning the server cart is going away.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = emptySnapshot()
	s.lastErr = nil
}

type cartAction struct {
	Action    string `json:"action"`
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity,omitempty"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type serverCart struct {
	ID    string `json:"id"`
	Items []struct {
		ProductID string    `json:"productId"`
		Quantity  int       `json:"quantity"`
		AddedAt   time.Time `json:"addedAt"`
	} `json:"items"`
	Totals struct {
		Subtotal decimal.Decimal `json:"subtotal"`
		Tax      decimal.Decimal `json:"tax"`
		Shipping decimal.Decimal `json:"shipping"`
		Total    decimal.Decimal `json:"total"`
	} `json:"totals"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// syncLocked posts one mutation and reconciles from the response. On
// failure the optimistic items stay, totals stay pending, and the error is
// recorded; nothing is rolled back.
func (s *Store) syncLocked(ctx context.Context, action cartAction) error {
	body, err := json.Marshal(action)
	if err != nil {
		s.lastErr = err
		return err
	}
	req, err := s.newRequest(ctx, http.MethodPost, "/cart", bytes.NewReader(body))
	if err != nil {
		s.lastErr = err
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	data, err := s.do(req)
	if err != nil {
		s.lastErr = err
		s.logger.Printf("cartclient: sync %s %s: %v", action.Action, action.ProductID, err)
		return err
	}

	var cart serverCart
	if err := json.Unmarshal(data, &cart); err != nil {
		s.lastErr = err
		return err
	}
	s.replaceLocked(&cart)
	return nil
}

func (s *Store) fetchCart(ctx context.Context) (*serverCart, error) {
	req, err := s.newRequest(ctx, http.MethodGet, "/cart", nil)
	if err != nil {
		return nil, err
	}
	data, err := s.do(req)
	if err != nil {
		return nil, err
	}
	var cart serverCart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *Store) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
}

func (s *Store) do(req *http.Request) (json.RawMessage, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if !env.Success {
		if env.Error != nil {
			return nil, fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
		}
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return env.Data, nil
}

func (s *Store) replaceLocked(cart *serverCart) {
	items := make([]Item, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, Item{ProductID: it.ProductID, Quantity: it.Quantity, AddedAt: it.AddedAt})
	}
	s.snap = Snapshot{
		ID:    cart.ID,
		Items: items,
		Totals: Totals{
			Subtotal: cart.Totals.Subtotal,
			Tax:      cart.Totals.Tax,
			Shipping: cart.Totals.Shipping,
			Total:    cart.Totals.Total,
		},
		Currency:  cart.Currency,
		UpdatedAt: cart.UpdatedAt,
	}
	s.lastErr = nil
}

func (s *Store) markDirtyLocked() {
	s.snap.Totals.Pending = true
	s.snap.UpdatedAt = time.Now().UTC()
}

func (s *Store) copySnapshot() Snapshot {
	out := s.snap
	out.Items = make([]Item, len(s.snap.Items))
	copy(out.Items, s.snap.Items)
	return out
}

func emptySnapshot() Snapshot {
	return Snapshot{
		Items:     []Item{},
		Currency:  "USD",
		UpdatedAt: time.Now().UTC(),
	}
}
