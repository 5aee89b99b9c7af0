package inventory

import "context"

// Gateway exposes the single atomic reserve-if-available operation on a
// product's stock count. TryReserve checks stock >= qty and decrements
// in one indivisible step, returning true on success and false when the
// stock is insufficient. It never partially decrements and is the sole
// authority preventing negative stock; implementations must behave as
// if serialized per product under arbitrary concurrent callers.
type Gateway interface {
	TryReserve(ctx context.Context, productID string, qty int) (bool, error)
}
