// Package identity resolves callers to a cart-owning identity and handles
// the login/logout transitions between anonymous and authenticated carts.
package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spud29/clancys-outdoors-website/internal/domain"
)

// ErrInvalidCredentials is returned when email/password do not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	customers customerRepo
}

type customerRepo interface {
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
}

func New(customers customerRepo) *Service {
	return &Service{customers: customers}
}

// Authenticate validates credentials and returns the matching customer.
// Lookup failures and password mismatches are indistinguishable to callers.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.Customer, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	c, err := s.customers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return c, nil
}

// NewSessionID issues a fresh anonymous session identifier.
func NewSessionID() string {
	return uuid.NewString()
}
