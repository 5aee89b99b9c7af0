package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ItemInput is a raw basket line as submitted by the client.
type ItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Validator runs the advisory pre-check over a basket. It is read-only:
// it does not reserve stock, so a concurrent checkout can still exhaust
// inventory between this check and the per-item commit. Real oversell
// prevention lives in the inventory gateway.
type Validator struct {
	store Store
}

func NewValidator(store Store) *Validator {
	return &Validator{store: store}
}

// Validate checks each line in request order and stops at the first
// failure. On success it returns the basket with unit prices and titles
// captured from the current product rows.
func (v *Validator) Validate(ctx context.Context, items []ItemInput) ([]PricedItem, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}

	priced := make([]PricedItem, 0, len(items))
	for _, it := range items {
		// Existence is checked before the quantity so an unknown product
		// reports not-found even when the quantity is also bad.
		p, err := v.store.ProductByID(ctx, it.ProductID)
		if errors.Is(err, ErrNotFound) {
			return nil, &ProductNotFoundError{ProductID: it.ProductID}
		}
		if err != nil {
			return nil, fmt.Errorf("lookup product %s: %w", it.ProductID, err)
		}

		if it.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: it.ProductID}
		}

		if p.Stock < it.Quantity {
			return nil, &InsufficientStockError{
				ProductID:    p.ID,
				ProductTitle: p.Title,
				Requested:    it.Quantity,
				Available:    p.Stock,
			}
		}

		qty := decimal.NewFromInt(int64(it.Quantity))
		priced = append(priced, PricedItem{
			ProductID:    p.ID,
			ProductTitle: p.Title,
			UnitPrice:    p.Price,
			Quantity:     it.Quantity,
			Subtotal:     p.Price.Mul(qty),
		})
	}
	return priced, nil
}
