package inventory

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/roomsuite/pos-backend/internal/checkout"
	kafkax "github.com/roomsuite/pos-backend/internal/kafka"
	"github.com/roomsuite/pos-backend/internal/metrics"
	"github.com/roomsuite/pos-backend/internal/redisx"
)

// Alerts consumes pos.stock.rejected events: checkouts whose per-item
// reservation lost a stock race. The transaction those events belong to
// still completed with its originally priced total, so these are the
// operational record of the gap between priced and committed items.
type Alerts struct {
	Redis   *redis.Client
	Metrics *metrics.Metrics
	Log     *zap.Logger

	dedupWarn sync.Once
}

// HandleStockRejected is installed as the consumer handler.
func (a *Alerts) HandleStockRejected(ctx context.Context, m kafkago.Message) error {
	var env checkout.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if env.EventType != checkout.EventStockRejected {
		return nil
	}

	// Dedup by event id so redelivered messages alert once. Fails open:
	// a Redis outage means duplicate alerts, not dropped ones.
	dkey := fmt.Sprintf(redisx.KeyDedup, "stock-alerts", env.EventID)
	exists, err := redisx.Exists(ctx, a.Redis, dkey)
	if err != nil {
		a.warnDedupDown(err)
	} else if exists {
		return nil
	}
	if err := a.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err(); err != nil {
		a.warnDedupDown(err)
	}

	p, err := kafkax.UnwrapPayload[checkout.StockRejectedPayload](env.Payload)
	if err != nil {
		return err
	}

	a.Log.Warn("stock reservation lost during checkout commit",
		zap.String("tenant_id", p.TenantID),
		zap.String("transaction_id", p.TransactionID),
		zap.String("code", p.Code),
		zap.String("product_id", p.ProductID),
		zap.Int("requested", p.Requested),
		zap.String("reason", p.Reason),
	)
	if a.Metrics != nil {
		a.Metrics.ReservationsLost.WithLabelValues(p.TenantID).Inc()
	}
	return nil
}

func (a *Alerts) warnDedupDown(err error) {
	a.dedupWarn.Do(func() {
		a.Log.Warn("alert dedup unavailable, redelivered events may alert twice",
			zap.Error(err))
	})
}
