package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/roomsuite/pos-backend/internal/kafka"
	"github.com/roomsuite/pos-backend/internal/metrics"
)

// StockReserver is the atomic reserve-if-available operation the commit
// phase depends on. Satisfied by the inventory gateways.
type StockReserver interface {
	TryReserve(ctx context.Context, productID string, qty int) (bool, error)
}

// Publisher is the slice of the Kafka producer the service publishes
// events through.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// CreateRequest is the validated input for a checkout.
type CreateRequest struct {
	TenantID      string
	Items         []ItemInput
	PaymentMethod string
	VoucherID     string
	MaleCount     int
	FemaleCount   int
	Description   string
	TraceID       string
}

// Service orchestrates the checkout workflow: validate, price, allocate
// a code, persist the transaction, then commit items one by one against
// live stock. Steps after the transaction insert are best-effort by
// design: losing a stock race on one line item does not discard the
// sale, it skips that item's line record. The stored totals always
// reflect the originally validated basket.
type Service struct {
	store     Store
	validator *Validator
	stock     StockReserver
	codes     CodeAllocator
	created   Publisher
	rejects   Publisher
	metrics   *metrics.Metrics
	log       *zap.Logger
	name      string
}

func NewService(
	store Store,
	stock StockReserver,
	codes CodeAllocator,
	created Publisher,
	rejects Publisher,
	m *metrics.Metrics,
	log *zap.Logger,
	serviceName string,
) *Service {
	return &Service{
		store:     store,
		validator: NewValidator(store),
		stock:     stock,
		codes:     codes,
		created:   created,
		rejects:   rejects,
		metrics:   m,
		log:       log,
		name:      serviceName,
	}
}

// Create runs the checkout workflow and returns the persisted
// transaction with whichever items committed.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Transaction, error) {
	if req.TenantID == "" {
		return nil, ErrMissingTenant
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if req.PaymentMethod == "" {
		return nil, ErrMissingPayment
	}

	// Advisory pre-check; no side effects have occurred yet.
	priced, err := s.validator.Validate(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	voucher := s.lookupVoucher(ctx, req.VoucherID)
	quote := PriceBasket(priced, voucher)

	tenant, err := s.store.TenantByID(ctx, req.TenantID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup tenant %s: %w", req.TenantID, err)
	}

	code, err := s.codes.Next(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("allocate code for tenant %s: %w", tenant.ID, err)
	}

	tx := &Transaction{
		ID:            uuid.NewString(),
		TenantID:      tenant.ID,
		Code:          code,
		PaymentMethod: req.PaymentMethod,
		Subtotal:      quote.Subtotal,
		Discount:      quote.Discount,
		Total:         quote.Total,
		MaleCount:     req.MaleCount,
		FemaleCount:   req.FemaleCount,
		Description:   req.Description,
		CreatedAt:     time.Now().UTC(),
	}
	if voucher != nil {
		id := voucher.ID
		tx.VoucherID = &id
	}

	if err := s.store.InsertTransaction(ctx, tx); err != nil {
		if errors.Is(err, ErrDuplicateCode) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("insert transaction %s: %w", code, err)
	}

	// Per-item commit. Each item independently reserves stock; a lost
	// race or error skips that item's line record and the loop moves
	// on. The transaction row is not rolled back.
	for _, it := range priced {
		ok, rErr := s.stock.TryReserve(ctx, it.ProductID, it.Quantity)
		if rErr != nil || !ok {
			s.recordLostReservation(tx, it, rErr)
			continue
		}

		item := TransactionItem{
			ID:            uuid.NewString(),
			TransactionID: tx.ID,
			ProductID:     it.ProductID,
			ProductTitle:  it.ProductTitle,
			ProductPrice:  it.UnitPrice,
			Quantity:      it.Quantity,
			Subtotal:      it.Subtotal,
		}
		if iErr := s.store.InsertItem(ctx, &item); iErr != nil {
			s.log.Error("persist transaction item failed after stock reserve",
				zap.String("tenant_id", tx.TenantID),
				zap.String("transaction_id", tx.ID),
				zap.String("code", tx.Code),
				zap.String("product_id", it.ProductID),
				zap.Error(iErr))
			continue
		}
		tx.Items = append(tx.Items, item)
	}

	if s.metrics != nil {
		s.metrics.TransactionsCreated.WithLabelValues(tx.TenantID).Inc()
	}
	s.publishCreated(tx, req.TraceID)

	return tx, nil
}

// List returns all transactions for a tenant with their items, newest
// first. Read-only.
func (s *Service) List(ctx context.Context, tenantID string) ([]Transaction, error) {
	if tenantID == "" {
		return nil, ErrMissingTenant
	}
	txs, err := s.store.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list transactions for tenant %s: %w", tenantID, err)
	}
	return txs, nil
}

// lookupVoucher resolves an optional voucher id. A missing, inactive or
// unreadable voucher means no discount, never an abort.
func (s *Service) lookupVoucher(ctx context.Context, voucherID string) *Voucher {
	if voucherID == "" {
		return nil
	}
	v, err := s.store.VoucherByID(ctx, voucherID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("voucher lookup failed, pricing without discount",
				zap.String("voucher_id", voucherID), zap.Error(err))
		}
		return nil
	}
	if !v.IsActive {
		return nil
	}
	return v
}

func (s *Service) recordLostReservation(tx *Transaction, it PricedItem, rErr error) {
	reason := "OUT_OF_STOCK"
	fields := []zap.Field{
		zap.String("tenant_id", tx.TenantID),
		zap.String("transaction_id", tx.ID),
		zap.String("code", tx.Code),
		zap.String("product_id", it.ProductID),
		zap.Int("requested", it.Quantity),
	}
	if rErr != nil {
		reason = "RESERVE_ERROR"
		fields = append(fields, zap.Error(rErr))
	}
	s.log.Warn("stock reservation lost, skipping line item", fields...)

	if s.metrics != nil {
		s.metrics.ReservationsLost.WithLabelValues(tx.TenantID).Inc()
	}
	if s.rejects == nil {
		return
	}
	s.publish(s.rejects, tx.ID, EventStockRejected, StockRejectedPayload{
		TransactionID: tx.ID,
		TenantID:      tx.TenantID,
		Code:          tx.Code,
		ProductID:     it.ProductID,
		Requested:     it.Quantity,
		Reason:        reason,
	}, "")
}

func (s *Service) publishCreated(tx *Transaction, traceID string) {
	if s.created == nil {
		return
	}
	s.publish(s.created, tx.ID, EventTransactionCreated, TransactionCreatedPayload{
		TransactionID: tx.ID,
		TenantID:      tx.TenantID,
		Code:          tx.Code,
		Subtotal:      tx.Subtotal.String(),
		Discount:      tx.Discount.String(),
		Total:         tx.Total.String(),
		ItemCount:     len(tx.Items),
	}, traceID)
}

func (s *Service) publish(p Publisher, transactionID, eventType string, payload any, traceID string) {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.name,
		TraceID:       traceID,
		CorrelationID: transactionID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(PartitionKey(transactionID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
