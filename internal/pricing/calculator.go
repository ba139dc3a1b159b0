// Package pricing computes per-item jewellery prices from gold rates and
// charge configuration, and aggregates priced items into order totals.
package pricing

import (
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/apperror"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/validation"
	"github.com/shopspring/decimal"
)

// ChargeType selects the formula for making and wastage charges.
type ChargeType string

const (
	ChargePercentage ChargeType = "Percentage"
	ChargeFixed      ChargeType = "Fixed Amount"
	ChargePerGram    ChargeType = "Per Gram"
	ChargePerPiece   ChargeType = "Per Piece"
)

// stoneValueRate is the share of the gold rate charged per gram of stone
// when no explicit stone value is given.
var stoneValueRate = decimal.RequireFromString("0.10")

// ItemSpec is the weight and charge configuration of one product.
type ItemSpec struct {
	Purity             string
	NetWeight          decimal.NullDecimal
	Weight             decimal.NullDecimal
	GrossWeight        decimal.Decimal
	StoneWeight        decimal.Decimal
	MakingChargeType   ChargeType
	MakingChargeValue  decimal.Decimal
	WastageChargeType  ChargeType
	WastageChargeValue decimal.Decimal
	AdditionalCost     decimal.NullDecimal
}

// ItemPriceBreakdown is the point-in-time price of one line item. Callers
// persist it verbatim; it is never recomputed for an existing line.
type ItemPriceBreakdown struct {
	Quantity           int             `json:"quantity"`
	Purity             string          `json:"purity"`
	PricePerGram       decimal.Decimal `json:"pricePerGram"`
	GSTPercentage      decimal.Decimal `json:"gstPercentage"`
	NetWeight          decimal.Decimal `json:"netWeight"`
	GrossWeight        decimal.Decimal `json:"grossWeight"`
	StoneWeight        decimal.Decimal `json:"stoneWeight"`
	GoldCost           decimal.Decimal `json:"goldCost"`
	StoneCost          decimal.Decimal `json:"stoneCost"`
	WastageChargeType  ChargeType      `json:"wastageChargeType"`
	WastageChargeValue decimal.Decimal `json:"wastageChargeValue"`
	WastageAmount      decimal.Decimal `json:"wastageAmount"`
	MakingChargeType   ChargeType      `json:"makingChargeType"`
	MakingChargeValue  decimal.Decimal `json:"makingChargeValue"`
	LabourCharges      decimal.Decimal `json:"labourCharges"`
	AdditionalCost     decimal.Decimal `json:"additionalCost"`
	BasePrice          decimal.Decimal `json:"basePrice"`
	TaxAmount          decimal.Decimal `json:"taxAmount"`
	FinalPrice         decimal.Decimal `json:"finalPrice"`
}

// EffectiveNetWeight prefers the net weight, then the generic weight, else zero.
func (s ItemSpec) EffectiveNetWeight() decimal.Decimal {
	if s.NetWeight.Valid {
		return s.NetWeight.Decimal
	}
	if s.Weight.Valid {
		return s.Weight.Decimal
	}
	return decimal.Zero
}

// PriceItem prices one unit of a line. stoneValue, when non-nil, replaces
// the stone-weight estimate. Each component is rounded once (money to 2
// places, weights to 3); basePrice is the sum of the rounded components,
// tax is taken on that base and finalPrice is basePrice + taxAmount, so the
// stored figures add up exactly.
func PriceItem(spec ItemSpec, quantity int, pricePerGram, gstPercentage decimal.Decimal, stoneValue *decimal.Decimal) (*ItemPriceBreakdown, error) {
	netWeight := spec.EffectiveNetWeight()

	v := make(validation.Violations)
	validation.PositiveDecimal("pricePerGram", pricePerGram, v)
	validation.PositiveInt("quantity", quantity, v)
	validation.PositiveDecimal("netWeight", netWeight, v)
	validation.NonNegativeDecimal("grossWeight", spec.GrossWeight, v)
	validation.NonNegativeDecimal("stoneWeight", spec.StoneWeight, v)
	validation.NonNegativeDecimal("gstPercentage", gstPercentage, v)
	validation.NonNegativeDecimal("makingChargeValue", spec.MakingChargeValue, v)
	validation.NonNegativeDecimal("wastageChargeValue", spec.WastageChargeValue, v)
	if stoneValue != nil {
		validation.NonNegativeDecimal("stoneValue", *stoneValue, v)
	}
	if !v.Empty() {
		return nil, apperror.Validation("invalid pricing input", v)
	}

	rawGold := netWeight.Mul(pricePerGram)
	goldCost := Money(rawGold)

	stoneCost := decimal.Zero
	if stoneValue != nil {
		stoneCost = Money(*stoneValue)
	} else if spec.StoneWeight.IsPositive() {
		stoneCost = Money(spec.StoneWeight.Mul(pricePerGram).Mul(stoneValueRate))
	}

	wastage := Money(chargeAmount(spec.WastageChargeType, spec.WastageChargeValue, rawGold, netWeight, true))
	labour := Money(chargeAmount(spec.MakingChargeType, spec.MakingChargeValue, rawGold, netWeight, false))

	additional := decimal.Zero
	if spec.AdditionalCost.Valid {
		additional = Money(spec.AdditionalCost.Decimal)
	}

	base := goldCost.Add(stoneCost).Add(wastage).Add(labour).Add(additional)
	tax := Money(percentOf(base, gstPercentage))
	final := base.Add(tax)

	return &ItemPriceBreakdown{
		Quantity:           quantity,
		Purity:             spec.Purity,
		PricePerGram:       Money(pricePerGram),
		GSTPercentage:      gstPercentage,
		NetWeight:          Weight(netWeight),
		GrossWeight:        Weight(spec.GrossWeight),
		StoneWeight:        Weight(spec.StoneWeight),
		GoldCost:           goldCost,
		StoneCost:          stoneCost,
		WastageChargeType:  spec.WastageChargeType,
		WastageChargeValue: spec.WastageChargeValue,
		WastageAmount:      wastage,
		MakingChargeType:   spec.MakingChargeType,
		MakingChargeValue:  spec.MakingChargeValue,
		LabourCharges:      labour,
		AdditionalCost:     additional,
		BasePrice:          base,
		TaxAmount:          tax,
		FinalPrice:         final,
	}, nil
}

// chargeAmount evaluates a making or wastage charge for one unit. Per Piece
// only applies to wastage and charges value per unit, so a line of quantity
// q pays q × value once the aggregator multiplies by quantity. Unknown or
// empty types charge nothing.
func chargeAmount(t ChargeType, value, goldCost, netWeight decimal.Decimal, perPieceAllowed bool) decimal.Decimal {
	switch t {
	case ChargePercentage:
		return percentOf(goldCost, value)
	case ChargePerGram:
		return netWeight.Mul(value)
	case ChargeFixed:
		return value
	case ChargePerPiece:
		if perPieceAllowed {
			return value
		}
	}
	return decimal.Zero
}
