package checkout

import "context"

// Store is the persistence boundary for the checkout core. Lookup
// methods return ErrNotFound for absent rows; InsertTransaction returns
// ErrDuplicateCode on a (tenant_id, code) uniqueness violation.
type Store interface {
	TenantByID(ctx context.Context, id string) (*Tenant, error)
	ProductByID(ctx context.Context, id string) (*Product, error)
	VoucherByID(ctx context.Context, id string) (*Voucher, error)

	InsertTransaction(ctx context.Context, tx *Transaction) error
	InsertItem(ctx context.Context, item *TransactionItem) error

	CountByTenant(ctx context.Context, tenantID string) (int64, error)
	ListByTenant(ctx context.Context, tenantID string) ([]Transaction, error)
}
