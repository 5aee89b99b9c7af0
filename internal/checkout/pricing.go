package checkout

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PricedItem is a basket line after validation, with the product's
// title and unit price captured at validation time.
type PricedItem struct {
	ProductID    string
	ProductTitle string
	UnitPrice    decimal.Decimal
	Quantity     int
	Subtotal     decimal.Decimal
}

// Quote is the result of pricing a basket.
type Quote struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// PriceBasket computes subtotal, discount and total for a validated
// basket. A nil or inactive voucher contributes no discount. The total
// is clamped at zero; the discount itself is not. Pure and
// deterministic, no I/O.
func PriceBasket(items []PricedItem, voucher *Voucher) Quote {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Subtotal)
	}

	discount := decimal.Zero
	if voucher != nil && voucher.IsActive {
		switch voucher.DiscountType {
		case DiscountPercentage:
			discount = subtotal.Mul(voucher.DiscountAmount).Div(hundred)
		default:
			discount = voucher.DiscountAmount
		}
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Quote{Subtotal: subtotal, Discount: discount, Total: total}
}
