package checkout

import (
	"encoding/json"
	"time"
)

const (
	EventTransactionCreated = "TransactionCreated"
	EventStockRejected      = "StockRejected"
)

// Envelope wraps every event on the bus. Payload carries the
// event-specific body.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // transaction id
	Payload       json.RawMessage `json:"payload"`
}

type TransactionCreatedPayload struct {
	TransactionID string `json:"transaction_id"`
	TenantID      string `json:"tenant_id"`
	Code          string `json:"code"`
	Subtotal      string `json:"subtotal"`
	Discount      string `json:"discount"`
	Total         string `json:"total"`
	ItemCount     int    `json:"item_count"`
}

// StockRejectedPayload records a per-item reservation that lost its
// stock race during commit. The transaction itself still completed.
type StockRejectedPayload struct {
	TransactionID string `json:"transaction_id"`
	TenantID      string `json:"tenant_id"`
	Code          string `json:"code"`
	ProductID     string `json:"product_id"`
	Requested     int    `json:"requested"`
	Reason        string `json:"reason"` // e.g. OUT_OF_STOCK
}
