package inventory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements Gateway with a single conditional UPDATE. The
// row-level lock taken by UPDATE serializes concurrent reservations per
// product, and the stock >= qty guard in the WHERE clause makes the
// check-then-decrement indivisible.
type Postgres struct {
	DB *pgxpool.Pool
}

var _ Gateway = (*Postgres)(nil)

func (g *Postgres) TryReserve(ctx context.Context, productID string, qty int) (bool, error) {
	if qty <= 0 {
		return false, fmt.Errorf("reserve %s: quantity must be positive, got %d", productID, qty)
	}
	ct, err := g.DB.Exec(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2`, productID, qty)
	if err != nil {
		return false, fmt.Errorf("reserve %s: %w", productID, err)
	}
	return ct.RowsAffected() == 1, nil
}
