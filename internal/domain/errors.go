package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrProductUnavailable indicates the product is out of stock or unknown
	// to the catalog. The triggering mutation leaves the cart unchanged.
	ErrProductUnavailable = errors.New("product not available")
	// ErrValidation indicates malformed input. Wrap with detail via fmt.Errorf.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized indicates a mutating call with no resolvable identity.
	ErrUnauthorized = errors.New("unauthorized")
)
