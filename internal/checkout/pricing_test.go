package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricedLine(id string, price string, qty int) PricedItem {
	p := decimal.RequireFromString(price)
	return PricedItem{
		ProductID: id,
		UnitPrice: p,
		Quantity:  qty,
		Subtotal:  p.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func TestPriceBasket_NoVoucher(t *testing.T) {
	q := PriceBasket([]PricedItem{
		pricedLine("p1", "100", 1),
		pricedLine("p2", "50", 2),
	}, nil)

	assert.True(t, q.Subtotal.Equal(decimal.RequireFromString("200")))
	assert.True(t, q.Discount.IsZero())
	assert.True(t, q.Total.Equal(q.Subtotal))
}

func TestPriceBasket_PercentageVoucher(t *testing.T) {
	v := &Voucher{
		DiscountType:   DiscountPercentage,
		DiscountAmount: decimal.NewFromInt(10),
		IsActive:       true,
	}
	q := PriceBasket([]PricedItem{pricedLine("p2", "50", 2)}, v)

	assert.True(t, q.Subtotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, q.Discount.Equal(decimal.NewFromInt(10)))
	assert.True(t, q.Total.Equal(decimal.NewFromInt(90)))
}

func TestPriceBasket_FixedVoucher(t *testing.T) {
	v := &Voucher{
		DiscountType:   DiscountFixed,
		DiscountAmount: decimal.NewFromInt(30),
		IsActive:       true,
	}
	q := PriceBasket([]PricedItem{pricedLine("p1", "100", 1)}, v)

	assert.True(t, q.Discount.Equal(decimal.NewFromInt(30)))
	assert.True(t, q.Total.Equal(decimal.NewFromInt(70)))
}

func TestPriceBasket_InactiveVoucherIgnored(t *testing.T) {
	v := &Voucher{
		DiscountType:   DiscountFixed,
		DiscountAmount: decimal.NewFromInt(30),
		IsActive:       false,
	}
	q := PriceBasket([]PricedItem{pricedLine("p1", "100", 1)}, v)

	assert.True(t, q.Discount.IsZero())
	assert.True(t, q.Total.Equal(decimal.NewFromInt(100)))
}

func TestPriceBasket_TotalClampedAtZero(t *testing.T) {
	v := &Voucher{
		DiscountType:   DiscountFixed,
		DiscountAmount: decimal.NewFromInt(500),
		IsActive:       true,
	}
	q := PriceBasket([]PricedItem{pricedLine("p1", "100", 1)}, v)

	// Discount itself is not clamped, only the total.
	assert.True(t, q.Discount.Equal(decimal.NewFromInt(500)))
	assert.True(t, q.Total.IsZero())
	assert.False(t, q.Total.IsNegative())
}

func TestPriceBasket_Deterministic(t *testing.T) {
	items := []PricedItem{pricedLine("p1", "33.33", 3)}
	v := &Voucher{
		DiscountType:   DiscountPercentage,
		DiscountAmount: decimal.RequireFromString("12.5"),
		IsActive:       true,
	}

	first := PriceBasket(items, v)
	second := PriceBasket(items, v)

	require.True(t, first.Subtotal.Equal(second.Subtotal))
	require.True(t, first.Discount.Equal(second.Discount))
	require.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.Total.Equal(first.Subtotal.Sub(first.Discount)))
}
