package checkout

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/roomsuite/pos-backend/internal/redisx"
)

// CodeAllocator produces the next transaction code for a tenant.
// Codes must be unique per tenant; a collision at insert time is
// reported as a conflict by the store, which every allocator relies on
// as the backstop.
type CodeAllocator interface {
	Next(ctx context.Context, tenant *Tenant) (string, error)
}

// TransactionCounter is the slice of Store the allocator needs.
type TransactionCounter interface {
	CountByTenant(ctx context.Context, tenantID string) (int64, error)
}

// FormatCode renders a sequence number into the display code shown to
// staff and customers, e.g. "ROOMS - ABC0001".
func FormatCode(tenantCode string, seq int64) string {
	return fmt.Sprintf("ROOMS - %s%04d", tenantCode, seq)
}

// SequenceAllocator allocates codes from an atomic per-tenant Redis
// counter. On first use the counter is seeded from the tenant's
// existing transaction count so historical tenants continue their
// sequence. When Redis is unavailable it degrades to count+1, which two
// concurrent checkouts can compute identically; the unique index on
// (tenant_id, code) resolves that race as a conflict.
type SequenceAllocator struct {
	Redis  *redis.Client
	Counts TransactionCounter
	Log    *zap.Logger
}

func (a *SequenceAllocator) Next(ctx context.Context, tenant *Tenant) (string, error) {
	seq, err := a.nextSequence(ctx, tenant.ID)
	if err != nil {
		return "", err
	}
	return FormatCode(tenant.TenantCode, seq), nil
}

func (a *SequenceAllocator) nextSequence(ctx context.Context, tenantID string) (int64, error) {
	if a.Redis != nil {
		key := fmt.Sprintf(redisx.KeyTenantSeq, tenantID)
		n, err := a.Redis.Incr(ctx, key).Result()
		if err == nil {
			if n == 1 {
				// Fresh counter: seed from history so the sequence
				// continues where count-based allocation left off.
				count, cErr := a.Counts.CountByTenant(ctx, tenantID)
				if cErr == nil && count > 0 {
					n = count + 1
					_ = a.Redis.Set(ctx, key, n, 0).Err()
				}
			}
			return n, nil
		}
		if a.Log != nil {
			a.Log.Warn("sequence counter unavailable, falling back to count",
				zap.String("tenant_id", tenantID), zap.Error(err))
		}
	}

	count, err := a.Counts.CountByTenant(ctx, tenantID)
	if err != nil {
		return 0, fmt.Errorf("count transactions for tenant %s: %w", tenantID, err)
	}
	return count + 1, nil
}
