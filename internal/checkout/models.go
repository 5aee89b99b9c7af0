package checkout

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tenant is a merchant account. All data is partitioned by tenant, and
// TenantCode (short uppercase alphanumeric) appears in generated
// transaction codes.
type Tenant struct {
	ID         string
	Name       string
	TenantCode string
	CreatedAt  time.Time
}

type Product struct {
	ID        string
	TenantID  string
	Title     string
	Price     decimal.Decimal
	Stock     int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Voucher struct {
	ID             string
	TenantID       string
	Code           string
	Name           string
	DiscountType   DiscountType
	DiscountAmount decimal.Decimal
	IsActive       bool
}

// Transaction is a completed checkout. Created exactly once, never
// mutated afterward. Total = max(0, Subtotal - Discount).
type Transaction struct {
	ID            string
	TenantID      string
	Code          string
	PaymentMethod string
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	VoucherID     *string
	MaleCount     int
	FemaleCount   int
	Description   string
	Items         []TransactionItem
	CreatedAt     time.Time
}

// TransactionItem snapshots the product's title and price at sale time;
// it is not a live reference to the product row.
type TransactionItem struct {
	ID            string
	TransactionID string
	ProductID     string
	ProductTitle  string
	ProductPrice  decimal.Decimal
	Quantity      int
	Subtotal      decimal.Decimal
}
