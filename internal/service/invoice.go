package service

import (
	"time"

	"github.com/hashreftech/jewellery-billing-software-sub000/internal/apperror"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/model"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/pricing"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/validation"
	"github.com/hashreftech/jewellery-billing-software-sub000/prometheus"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceParty is the customer block printed on an invoice.
type InvoiceParty struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// InvoiceLine is one priced line. UnitPrice is per piece and LineTotal
// is UnitPrice times Quantity.
type InvoiceLine struct {
	ItemID          uint               `json:"itemId"`
	ProductName     string             `json:"productName"`
	Barcode         string             `json:"barcode"`
	HSNCode         string             `json:"hsnCode"`
	Purity          string             `json:"purity"`
	Quantity        int                `json:"quantity"`
	NetWeight       decimal.Decimal    `json:"netWeight"`
	GrossWeight     decimal.Decimal    `json:"grossWeight"`
	StoneWeight     decimal.Decimal    `json:"stoneWeight"`
	GoldRatePerGram decimal.Decimal    `json:"goldRatePerGram"`
	GoldCost        decimal.Decimal    `json:"goldCost"`
	StoneCost       decimal.Decimal    `json:"stoneCost"`
	WastageType     pricing.ChargeType `json:"wastageChargeType"`
	WastageAmount   decimal.Decimal    `json:"wastageAmount"`
	MakingType      pricing.ChargeType `json:"makingChargeType"`
	LabourCharges   decimal.Decimal    `json:"labourCharges"`
	AdditionalCost  decimal.Decimal    `json:"additionalCost"`
	BasePrice       decimal.Decimal    `json:"basePrice"`
	GSTPercentage   decimal.Decimal    `json:"gstPercentage"`
	GSTAmount       decimal.Decimal    `json:"gstAmount"`
	UnitPrice       decimal.Decimal    `json:"unitPrice"`
	LineTotal       decimal.Decimal    `json:"lineTotal"`
}

// Invoice is the printable content of an order.
type Invoice struct {
	InvoiceNumber string               `json:"invoiceNumber"`
	OrderDate     time.Time            `json:"orderDate"`
	Status        model.OrderStatus    `json:"status"`
	Customer      InvoiceParty         `json:"customer"`
	Lines         []InvoiceLine        `json:"lines"`
	Totals        pricing.OrderTotals  `json:"totals"`
	Discount      decimal.Decimal      `json:"discount"`
	DiscountType  pricing.DiscountType `json:"discountType"`
	Notes         string               `json:"notes,omitempty"`
}

// BuildInvoice assembles invoice data for an order from its stored
// snapshot. Prices are never recomputed; product and category rows only
// contribute names and HSN codes.
func BuildInvoice(db *gorm.DB, orderID uint) (*Invoice, error) {
	defer prometheus.TrackDBOperation("select_invoice")(time.Now())

	var o model.PurchaseOrder
	err := db.Preload("Customer").
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Preload("Items.Product", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Preload("Items.Product.Category", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		First(&o, orderID).Error
	if err != nil {
		return nil, apperror.FromDB(err, "purchase order", orderID)
	}
	if o.Status == model.StatusCancelled {
		return nil, apperror.Validation("cancelled orders cannot be invoiced", validation.Violations{"status": "cancelled"})
	}

	inv := &Invoice{
		InvoiceNumber: o.OrderNumber,
		OrderDate:     o.OrderDate,
		Status:        o.Status,
		Lines:         make([]InvoiceLine, 0, len(o.Items)),
		Totals: pricing.OrderTotals{
			SubTotal:             o.SubTotal,
			TotalTax:             o.GSTAmount,
			TotalGoldGrossWeight: o.TotalGoldGrossWeight,
			DiscountAmount:       o.TotalDiscountAmount,
			GrandTotal:           o.TotalAmount,
		},
		Discount:     o.Discount,
		DiscountType: o.DiscountType,
		Notes:        o.Notes,
	}
	if o.Customer != nil {
		inv.Customer = InvoiceParty{
			Name:    o.Customer.Name,
			Phone:   o.Customer.Phone,
			Email:   o.Customer.Email,
			Address: o.Customer.Address,
		}
	}

	for _, it := range o.Items {
		line := InvoiceLine{
			ItemID:          it.ID,
			Purity:          it.Purity,
			Quantity:        it.Quantity,
			NetWeight:       it.NetWeight,
			GrossWeight:     it.GrossWeight,
			StoneWeight:     it.StoneWeight,
			GoldRatePerGram: it.GoldRatePerGram,
			GoldCost:        it.GoldCost,
			StoneCost:       it.StoneCost,
			WastageType:     it.WastageChargeType,
			WastageAmount:   it.WastageAmount,
			MakingType:      it.MakingChargeType,
			LabourCharges:   it.LabourCharges,
			AdditionalCost:  it.AdditionalCost,
			BasePrice:       it.BasePrice,
			GSTPercentage:   it.GSTPercentage,
			GSTAmount:       it.GSTAmount,
			UnitPrice:       it.TotalPrice,
			LineTotal:       pricing.Money(it.TotalPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))),
		}
		if it.Product != nil {
			line.ProductName = it.Product.Name
			line.Barcode = it.Product.Barcode
			if it.Product.Category != nil {
				line.HSNCode = it.Product.Category.HSNCode
			}
		}
		inv.Lines = append(inv.Lines, line)
	}
	return inv, nil
}
