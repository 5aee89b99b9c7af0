package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrMissingTenant  = errors.New("tenant_id is required")
	ErrEmptyItems     = errors.New("items required")
	ErrMissingPayment = errors.New("payment_method is required")

	// ErrTenantNotFound means the tenant referenced by the request does
	// not exist.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrDuplicateCode is returned by the store when inserting a
	// transaction whose code collides with an existing one for the same
	// tenant. Surfaced to callers as a conflict, never as corruption.
	ErrDuplicateCode = errors.New("transaction code already exists")

	// ErrNotFound is the store-level sentinel for absent rows. Callers
	// wrap it into the typed errors below before it leaves the package.
	ErrNotFound = errors.New("not found")
)

// ProductNotFoundError indicates a requested product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InvalidQuantityError indicates a line item with a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// InsufficientStockError indicates the advisory pre-check found less
// stock than the basket requires.
type InsufficientStockError struct {
	ProductID    string
	ProductTitle string
	Requested    int
	Available    int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductTitle, e.Requested, e.Available)
}
