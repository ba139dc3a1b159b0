package model

import (
	"time"

	"github.com/hashreftech/jewellery-billing-software-sub000/internal/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductType describes whether a piece carries stones.
type ProductType string

const (
	ProductNoStone      ProductType = "No stone"
	ProductStone        ProductType = "Stone"
	ProductDiamondStone ProductType = "Diamond Stone"
)

var ProductTypes = []string{string(ProductNoStone), string(ProductStone), string(ProductDiamondStone)}

var MakingChargeTypes = []string{
	string(pricing.ChargePercentage),
	string(pricing.ChargeFixed),
	string(pricing.ChargePerGram),
}

var WastageChargeTypes = []string{
	string(pricing.ChargePercentage),
	string(pricing.ChargeFixed),
	string(pricing.ChargePerGram),
	string(pricing.ChargePerPiece),
}

// Product is a catalogue item with its weight and charge configuration.
type Product struct {
	ID                 uint                `json:"id" gorm:"primaryKey"`
	Name               string              `json:"name" gorm:"type:varchar(150);not null"`
	Barcode            string              `json:"barcode" gorm:"type:varchar(64);uniqueIndex;not null"`
	Type               ProductType         `json:"type" gorm:"type:varchar(20);not null;default:'No stone'"`
	Purity             string              `json:"purity" gorm:"type:varchar(20)"`
	NetWeight          decimal.NullDecimal `json:"netWeight" gorm:"type:decimal(12,3)"`
	Weight             decimal.NullDecimal `json:"weight" gorm:"type:decimal(12,3)"`
	GrossWeight        decimal.Decimal     `json:"grossWeight" gorm:"type:decimal(12,3);not null;default:0"`
	StoneWeight        decimal.NullDecimal `json:"stoneWeight" gorm:"type:decimal(12,3)"`
	DealerID           *uint               `json:"dealerId" gorm:"index"`
	Dealer             *Dealer             `json:"dealer,omitempty"`
	CategoryID         uint                `json:"categoryId" gorm:"index;not null"`
	Category           *ProductCategory    `json:"category,omitempty"`
	MakingChargeType   pricing.ChargeType  `json:"makingChargeType" gorm:"type:varchar(20)"`
	MakingChargeValue  decimal.Decimal     `json:"makingChargeValue" gorm:"type:decimal(14,2);not null;default:0"`
	WastageChargeType  pricing.ChargeType  `json:"wastageChargeType" gorm:"type:varchar(20)"`
	WastageChargeValue decimal.Decimal     `json:"wastageChargeValue" gorm:"type:decimal(14,2);not null;default:0"`
	AdditionalCost     decimal.NullDecimal `json:"additionalCost" gorm:"type:decimal(14,2)"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
	DeletedAt          gorm.DeletedAt      `json:"-" gorm:"index"`
}

// BeforeSave derives the stone weight when it was not supplied.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if !p.StoneWeight.Valid {
		p.StoneWeight = decimal.NewNullDecimal(p.DerivedStoneWeight())
	}
	return nil
}

// DerivedStoneWeight is gross minus effective net weight, never negative.
func (p *Product) DerivedStoneWeight() decimal.Decimal {
	net := p.PricingSpec().EffectiveNetWeight()
	sw := p.GrossWeight.Sub(net)
	if sw.IsNegative() {
		return decimal.Zero
	}
	return sw
}

// PricingSpec returns the fields the item calculator needs.
func (p *Product) PricingSpec() pricing.ItemSpec {
	spec := pricing.ItemSpec{
		Purity:             p.Purity,
		NetWeight:          p.NetWeight,
		Weight:             p.Weight,
		GrossWeight:        p.GrossWeight,
		MakingChargeType:   p.MakingChargeType,
		MakingChargeValue:  p.MakingChargeValue,
		WastageChargeType:  p.WastageChargeType,
		WastageChargeValue: p.WastageChargeValue,
		AdditionalCost:     p.AdditionalCost,
	}
	if p.StoneWeight.Valid {
		spec.StoneWeight = p.StoneWeight.Decimal
	}
	return spec
}
