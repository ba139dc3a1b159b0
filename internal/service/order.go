package service

import (
	"fmt"
	"time"

	"github.com/hashreftech/jewellery-billing-software-sub000/internal/apperror"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/audit"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/model"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/pricing"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/validation"
	"github.com/hashreftech/jewellery-billing-software-sub000/prometheus"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NewOrderItem is a product selection on a new order.
type NewOrderItem struct {
	ProductID  uint
	Quantity   int
	StoneValue *decimal.Decimal
}

// CreateOrderInput is a new purchase order. A nil OrderDate means today;
// a nil Status means pending.
type CreateOrderInput struct {
	CustomerID   uint
	OrderDate    *time.Time
	Status       *model.OrderStatus
	Discount     decimal.Decimal
	DiscountType pricing.DiscountType
	Notes        string
	Items        []NewOrderItem
}

func (in *CreateOrderInput) validate() error {
	v := make(validation.Violations)
	validation.RequiredID("customerId", in.CustomerID, v)
	if len(in.Items) == 0 {
		v["items"] = "required"
	}
	for i, it := range in.Items {
		key := fmt.Sprintf("items[%d]", i)
		validation.RequiredID(key+".productId", it.ProductID, v)
		validation.PositiveInt(key+".quantity", it.Quantity, v)
		if it.StoneValue != nil {
			validation.NonNegativeDecimal(key+".stoneValue", *it.StoneValue, v)
		}
	}
	if in.Status != nil && !in.Status.Valid() {
		v["status"] = "invalid_choice"
	}
	validation.NonNegativeDecimal("discount", in.Discount, v)
	if !in.DiscountType.Valid() {
		v["discountType"] = "invalid_choice"
	}
	if !v.Empty() {
		return apperror.Validation("invalid purchase order", v)
	}
	return nil
}

// CreatePurchaseOrder prices every selection from live data, stores the
// order with its lines and writes the "created" audit row, all in one
// transaction. today scopes the order number and is the default order date.
func CreatePurchaseOrder(db *gorm.DB, in CreateOrderInput, actor uint, today time.Time) (*model.PurchaseOrder, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	orderDate := model.Day(today)
	if in.OrderDate != nil {
		orderDate = model.Day(*in.OrderDate)
	}
	status := model.StatusPending
	if in.Status != nil {
		status = *in.Status
	}
	discountType := in.DiscountType
	if discountType == "" {
		discountType = pricing.DiscountAmount
	}

	var order model.PurchaseOrder
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := GetCustomer(tx, in.CustomerID); err != nil {
			return err
		}

		items := make([]model.PurchaseOrderItem, 0, len(in.Items))
		for i, sel := range in.Items {
			b, err := priceProduct(tx, sel.ProductID, sel.Quantity, sel.StoneValue, orderDate)
			if err != nil {
				return apperror.Prefixed(fmt.Sprintf("items[%d]", i), err)
			}
			items = append(items, model.NewPurchaseOrderItem(sel.ProductID, b))
		}

		number, err := NextOrderNumber(tx, today)
		if err != nil {
			return err
		}

		order = model.PurchaseOrder{
			OrderNumber:  number,
			CustomerID:   in.CustomerID,
			OrderDate:    orderDate,
			Status:       status,
			Discount:     in.Discount,
			DiscountType: discountType,
			Notes:        in.Notes,
			Items:        items,
			CreatedBy:    actor,
			UpdatedBy:    actor,
		}
		order.ApplyTotals(pricing.Aggregate(model.Breakdowns(items), in.Discount, discountType))

		done := prometheus.TrackDBOperation("insert_purchase_order")
		start := time.Now()
		err = tx.Create(&order).Error
		done(start)
		if err != nil {
			return apperror.FromDB(err, "purchase order "+number, order.ID)
		}

		return writeAudit(tx, order.ID, actor, audit.Created(&order, len(items)))
	})
	if err != nil {
		return nil, err
	}

	prometheus.ObserveOrderTotal(order.TotalAmount.InexactFloat64())
	return &order, nil
}

// UpdatePurchaseOrder applies patch to an order. Line edits, added and
// removed lines, order fields and the "updated" audit row are written in
// one transaction; any failure rolls all of them back.
func UpdatePurchaseOrder(db *gorm.DB, id uint, patch audit.OrderPatch, actor uint) (*model.PurchaseOrder, *audit.UpdatedRecord, error) {
	var record *audit.UpdatedRecord
	err := db.Transaction(func(tx *gorm.DB) error {
		prev, err := loadOrder(tx, id)
		if err != nil {
			return err
		}
		prevItems := prev.Items

		if patch.CustomerID != nil && *patch.CustomerID != 0 && *patch.CustomerID != prev.CustomerID {
			if _, err := GetCustomer(tx, *patch.CustomerID); err != nil {
				return err
			}
		}

		price := func(p audit.ItemPatch, orderDate time.Time) (*model.PurchaseOrderItem, error) {
			b, err := priceProduct(tx, *p.ProductID, *p.Quantity, p.StoneValue, orderDate)
			if err != nil {
				return nil, err
			}
			it := model.NewPurchaseOrderItem(*p.ProductID, b)
			it.PurchaseOrderID = id
			return &it, nil
		}

		res, err := audit.Diff(*prev, prevItems, patch, price)
		if err != nil {
			return err
		}

		defer prometheus.TrackDBOperation("update_purchase_order")(time.Now())

		for i := range res.Updated {
			it := res.Updated[i]
			err := tx.Select("quantity", "net_weight", "gold_rate_per_gram", "base_price", "gst_amount", "total_price", "updated_at").
				Updates(&it).Error
			if err != nil {
				return apperror.FromDB(err, "purchase order item", it.ID)
			}
		}
		for i := range res.Added {
			if err := tx.Create(&res.Added[i]).Error; err != nil {
				return apperror.FromDB(err, "purchase order item", res.Added[i].ProductID)
			}
		}
		if len(res.Removed) > 0 {
			ids := make([]uint, len(res.Removed))
			for i, it := range res.Removed {
				ids[i] = it.ID
			}
			if err := tx.Where("purchase_order_id = ?", id).Delete(&model.PurchaseOrderItem{}, ids).Error; err != nil {
				return apperror.FromDB(err, "purchase order item", ids)
			}
		}

		o := res.Order
		o.UpdatedBy = actor
		err = tx.Select("customer_id", "order_date", "status", "discount", "discount_type", "notes",
			"sub_total", "total_gold_gross_weight", "total_discount_amount", "gst_amount", "total_amount",
			"updated_by", "updated_at").
			Updates(&o).Error
		if err != nil {
			return apperror.FromDB(err, "purchase order", id)
		}

		record = res.Record
		return writeAudit(tx, id, actor, res.Record)
	})
	if err != nil {
		return nil, nil, err
	}

	order, err := GetPurchaseOrder(db, id)
	if err != nil {
		return nil, nil, err
	}
	prometheus.ObserveOrderTotal(order.TotalAmount.InexactFloat64())
	return order, record, nil
}

func writeAudit(tx *gorm.DB, orderID, actor uint, rec audit.Record) error {
	changes, err := audit.Encode(rec)
	if err != nil {
		return apperror.Persistence("failed to encode audit record", err)
	}
	entry := model.PurchaseOrderAuditLog{
		PurchaseOrderID: orderID,
		UpdatedBy:       actor,
		Changes:         changes,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return apperror.FromDB(err, "audit log", orderID)
	}
	prometheus.RecordAudit(string(rec.Action()))
	return nil
}

func loadOrder(db *gorm.DB, id uint) (*model.PurchaseOrder, error) {
	var o model.PurchaseOrder
	err := db.Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		First(&o, id).Error
	if err != nil {
		return nil, apperror.FromDB(err, "purchase order", id)
	}
	return &o, nil
}

// GetPurchaseOrder returns an order with its customer and lines.
func GetPurchaseOrder(db *gorm.DB, id uint) (*model.PurchaseOrder, error) {
	defer prometheus.TrackDBOperation("select_purchase_order")(time.Now())
	var o model.PurchaseOrder
	err := db.Preload("Customer").
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		First(&o, id).Error
	if err != nil {
		return nil, apperror.FromDB(err, "purchase order", id)
	}
	return &o, nil
}

// OrderFilter narrows ListPurchaseOrders. Zero values do not filter.
type OrderFilter struct {
	CustomerID uint
	Status     model.OrderStatus
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// ListPurchaseOrders returns orders without lines, newest first.
func ListPurchaseOrders(db *gorm.DB, f OrderFilter) ([]model.PurchaseOrder, int64, error) {
	defer prometheus.TrackDBOperation("select_purchase_orders")(time.Now())

	q := db.Model(&model.PurchaseOrder{})
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("order_date >= ?", model.Day(*f.From))
	}
	if f.To != nil {
		q = q.Where("order_date <= ?", model.Day(*f.To))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperror.Persistence("failed to count purchase orders", err)
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var orders []model.PurchaseOrder
	err := q.Preload("Customer").
		Order("order_date desc, id desc").
		Limit(limit).Offset(f.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, apperror.Persistence("failed to list purchase orders", err)
	}
	return orders, total, nil
}

// AuditEntry is a decoded audit log row.
type AuditEntry struct {
	ID              uint         `json:"id"`
	PurchaseOrderID uint         `json:"purchaseOrderId"`
	UpdatedBy       uint         `json:"updatedBy"`
	UpdatedAt       time.Time    `json:"updatedAt"`
	Changes         audit.Record `json:"changes"`
}

// ListAudit returns the audit history of an order, most recent first.
func ListAudit(db *gorm.DB, orderID uint) ([]AuditEntry, error) {
	var count int64
	if err := db.Model(&model.PurchaseOrder{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
		return nil, apperror.Persistence("failed to look up purchase order", err)
	}
	if count == 0 {
		return nil, apperror.NotFound("purchase order", orderID)
	}

	defer prometheus.TrackDBOperation("select_audit_log")(time.Now())
	var rows []model.PurchaseOrderAuditLog
	err := db.Where("purchase_order_id = ?", orderID).
		Order("updated_at desc, id desc").
		Find(&rows).Error
	if err != nil {
		return nil, apperror.Persistence("failed to read audit log", err)
	}

	out := make([]AuditEntry, 0, len(rows))
	for _, r := range rows {
		rec, err := audit.Decode(r.Changes)
		if err != nil {
			return nil, apperror.Persistence(fmt.Sprintf("audit log %d is unreadable", r.ID), err)
		}
		out = append(out, AuditEntry{
			ID:              r.ID,
			PurchaseOrderID: r.PurchaseOrderID,
			UpdatedBy:       r.UpdatedBy,
			UpdatedAt:       r.UpdatedAt,
			Changes:         rec,
		})
	}
	return out, nil
}
