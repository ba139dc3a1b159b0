package pricing

import "github.com/shopspring/decimal"

const (
	moneyPlaces  = 2
	weightPlaces = 3
)

var hundred = decimal.NewFromInt(100)

// Money rounds an amount to paise.
func Money(d decimal.Decimal) decimal.Decimal { return d.Round(moneyPlaces) }

// Weight rounds a weight to milligrams.
func Weight(d decimal.Decimal) decimal.Decimal { return d.Round(weightPlaces) }

func percentOf(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred)
}
