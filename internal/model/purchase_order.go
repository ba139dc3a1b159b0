package model

import (
	"time"

	"github.com/hashreftech/jewellery-billing-software-sub000/internal/pricing"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a purchase order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusReceived  OrderStatus = "received"
	StatusCancelled OrderStatus = "cancelled"
	StatusInvoiced  OrderStatus = "invoiced"
)

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusReceived, StatusCancelled},
	StatusReceived:  {StatusInvoiced, StatusCancelled},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusReceived, StatusCancelled, StatusInvoiced:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusInvoiced
}

// CanTransition reports whether an order may move from s to next.
// Staying in the same state is always allowed.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PurchaseOrder is a customer sales transaction with its computed totals.
type PurchaseOrder struct {
	ID                   uint                 `json:"id" gorm:"primaryKey"`
	OrderNumber          string               `json:"orderNumber" gorm:"type:varchar(20);uniqueIndex;not null"`
	CustomerID           uint                 `json:"customerId" gorm:"index;not null"`
	Customer             *Customer            `json:"customer,omitempty"`
	OrderDate            time.Time            `json:"orderDate" gorm:"type:date;not null"`
	Status               OrderStatus          `json:"status" gorm:"type:varchar(20);index;not null;default:'pending'"`
	Discount             decimal.Decimal      `json:"discount" gorm:"type:decimal(14,2);not null;default:0"`
	DiscountType         pricing.DiscountType `json:"discountType" gorm:"type:varchar(20);not null;default:'amount'"`
	Notes                string               `json:"notes" gorm:"type:text"`
	SubTotal             decimal.Decimal      `json:"subTotal" gorm:"type:decimal(14,2);not null;default:0"`
	TotalGoldGrossWeight decimal.Decimal      `json:"totalGoldGrossWeight" gorm:"type:decimal(12,3);not null;default:0"`
	TotalDiscountAmount  decimal.Decimal      `json:"totalDiscountAmount" gorm:"type:decimal(14,2);not null;default:0"`
	GSTAmount            decimal.Decimal      `json:"gstAmount" gorm:"type:decimal(14,2);not null;default:0"`
	TotalAmount          decimal.Decimal      `json:"totalAmount" gorm:"type:decimal(14,2);not null;default:0"`
	Items                []PurchaseOrderItem  `json:"items,omitempty" gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
	CreatedBy            uint                 `json:"createdBy" gorm:"index"`
	UpdatedBy            uint                 `json:"updatedBy"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}

// ApplyTotals copies aggregated totals onto the order.
func (o *PurchaseOrder) ApplyTotals(t pricing.OrderTotals) {
	o.SubTotal = t.SubTotal
	o.GSTAmount = t.TotalTax
	o.TotalGoldGrossWeight = t.TotalGoldGrossWeight
	o.TotalDiscountAmount = t.DiscountAmount
	o.TotalAmount = t.GrandTotal
}

// PurchaseOrderItem is one priced line. Every figure is a snapshot taken
// when the line was priced.
type PurchaseOrderItem struct {
	ID                 uint               `json:"id" gorm:"primaryKey"`
	PurchaseOrderID    uint               `json:"purchaseOrderId" gorm:"index;not null"`
	ProductID          uint               `json:"productId" gorm:"index;not null"`
	Product            *Product           `json:"product,omitempty"`
	Quantity           int                `json:"quantity" gorm:"not null"`
	Purity             string             `json:"purity" gorm:"type:varchar(20)"`
	GoldRatePerGram    decimal.Decimal    `json:"goldRatePerGram" gorm:"type:decimal(14,2);not null"`
	NetWeight          decimal.Decimal    `json:"netWeight" gorm:"type:decimal(12,3);not null"`
	GrossWeight        decimal.Decimal    `json:"grossWeight" gorm:"type:decimal(12,3);not null;default:0"`
	StoneWeight        decimal.Decimal    `json:"stoneWeight" gorm:"type:decimal(12,3);not null;default:0"`
	LabourRatePerGram  decimal.Decimal    `json:"labourRatePerGram" gorm:"type:decimal(14,2);not null;default:0"`
	MakingChargeType   pricing.ChargeType `json:"makingChargeType" gorm:"type:varchar(20)"`
	MakingChargeValue  decimal.Decimal    `json:"makingChargeValue" gorm:"type:decimal(14,2);not null;default:0"`
	WastageChargeType  pricing.ChargeType `json:"wastageChargeType" gorm:"type:varchar(20)"`
	WastageChargeValue decimal.Decimal    `json:"wastageChargeValue" gorm:"type:decimal(14,2);not null;default:0"`
	GoldCost           decimal.Decimal    `json:"goldCost" gorm:"type:decimal(14,2);not null;default:0"`
	StoneCost          decimal.Decimal    `json:"stoneCost" gorm:"type:decimal(14,2);not null;default:0"`
	WastageAmount      decimal.Decimal    `json:"wastageAmount" gorm:"type:decimal(14,2);not null;default:0"`
	LabourCharges      decimal.Decimal    `json:"labourCharges" gorm:"type:decimal(14,2);not null;default:0"`
	AdditionalCost     decimal.Decimal    `json:"additionalCost" gorm:"type:decimal(14,2);not null;default:0"`
	BasePrice          decimal.Decimal    `json:"basePrice" gorm:"type:decimal(14,2);not null"`
	GSTPercentage      decimal.Decimal    `json:"gstPercentage" gorm:"type:decimal(6,2);not null;default:0"`
	GSTAmount          decimal.Decimal    `json:"gstAmount" gorm:"type:decimal(14,2);not null;default:0"`
	TotalPrice         decimal.Decimal    `json:"totalPrice" gorm:"type:decimal(14,2);not null"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// NewPurchaseOrderItem snapshots a freshly computed breakdown into a line.
func NewPurchaseOrderItem(productID uint, b *pricing.ItemPriceBreakdown) PurchaseOrderItem {
	labourRate := decimal.Zero
	if b.NetWeight.IsPositive() {
		labourRate = pricing.Money(b.LabourCharges.Div(b.NetWeight))
	}
	return PurchaseOrderItem{
		ProductID:          productID,
		Quantity:           b.Quantity,
		Purity:             b.Purity,
		GoldRatePerGram:    b.PricePerGram,
		NetWeight:          b.NetWeight,
		GrossWeight:        b.GrossWeight,
		StoneWeight:        b.StoneWeight,
		LabourRatePerGram:  labourRate,
		MakingChargeType:   b.MakingChargeType,
		MakingChargeValue:  b.MakingChargeValue,
		WastageChargeType:  b.WastageChargeType,
		WastageChargeValue: b.WastageChargeValue,
		GoldCost:           b.GoldCost,
		StoneCost:          b.StoneCost,
		WastageAmount:      b.WastageAmount,
		LabourCharges:      b.LabourCharges,
		AdditionalCost:     b.AdditionalCost,
		BasePrice:          b.BasePrice,
		GSTPercentage:      b.GSTPercentage,
		GSTAmount:          b.TaxAmount,
		TotalPrice:         b.FinalPrice,
	}
}

// Breakdown rebuilds the price breakdown from the stored snapshot. Nothing
// is recomputed from live product or price data.
func (it *PurchaseOrderItem) Breakdown() pricing.ItemPriceBreakdown {
	return pricing.ItemPriceBreakdown{
		Quantity:           it.Quantity,
		Purity:             it.Purity,
		PricePerGram:       it.GoldRatePerGram,
		GSTPercentage:      it.GSTPercentage,
		NetWeight:          it.NetWeight,
		GrossWeight:        it.GrossWeight,
		StoneWeight:        it.StoneWeight,
		GoldCost:           it.GoldCost,
		StoneCost:          it.StoneCost,
		WastageChargeType:  it.WastageChargeType,
		WastageChargeValue: it.WastageChargeValue,
		WastageAmount:      it.WastageAmount,
		MakingChargeType:   it.MakingChargeType,
		MakingChargeValue:  it.MakingChargeValue,
		LabourCharges:      it.LabourCharges,
		AdditionalCost:     it.AdditionalCost,
		BasePrice:          it.BasePrice,
		TaxAmount:          it.GSTAmount,
		FinalPrice:         it.TotalPrice,
	}
}

// Breakdowns returns the snapshot breakdown of every line.
func Breakdowns(items []PurchaseOrderItem) []pricing.ItemPriceBreakdown {
	out := make([]pricing.ItemPriceBreakdown, len(items))
	for i := range items {
		out[i] = items[i].Breakdown()
	}
	return out
}
