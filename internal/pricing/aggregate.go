package pricing

import "github.com/shopspring/decimal"

// DiscountType says how an order discount is applied.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountAmount     DiscountType = "amount"
)

// Valid reports whether t is a known discount type. Empty counts as amount.
func (t DiscountType) Valid() bool {
	return t == "" || t == DiscountPercentage || t == DiscountAmount
}

// OrderTotals are the order-level figures derived from priced lines.
type OrderTotals struct {
	SubTotal             decimal.Decimal `json:"subTotal"`
	TotalTax             decimal.Decimal `json:"totalTax"`
	TotalGoldGrossWeight decimal.Decimal `json:"totalGoldGrossWeight"`
	DiscountAmount       decimal.Decimal `json:"discountAmount"`
	GrandTotal           decimal.Decimal `json:"grandTotal"`
}

// Aggregate sums priced lines into order totals. Line amounts are per unit
// and are multiplied by each line's quantity. The discount is rounded before
// it is subtracted, so GrandTotal == SubTotal - DiscountAmount unless that
// would be negative, in which case it is zero.
func Aggregate(items []ItemPriceBreakdown, discount decimal.Decimal, discountType DiscountType) OrderTotals {
	subTotal := decimal.Zero
	tax := decimal.Zero
	weight := decimal.Zero
	for _, it := range items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		subTotal = subTotal.Add(it.FinalPrice.Mul(qty))
		tax = tax.Add(it.TaxAmount.Mul(qty))
		weight = weight.Add(it.GrossWeight.Mul(qty))
	}

	discountAmount := Money(discount)
	if discountType == DiscountPercentage {
		discountAmount = Money(percentOf(subTotal, discount))
	}

	grand := subTotal.Sub(discountAmount)
	if grand.IsNegative() {
		grand = decimal.Zero
	}

	return OrderTotals{
		SubTotal:             Money(subTotal),
		TotalTax:             Money(tax),
		TotalGoldGrossWeight: Weight(weight),
		DiscountAmount:       discountAmount,
		GrandTotal:           Money(grand),
	}
}
