package audit

import (
	"fmt"
	"strconv"
	"time"

	"github.com/hashreftech/jewellery-billing-software-sub000/internal/apperror"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/model"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/pricing"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/validation"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// OrderPatch is an incoming order update. Nil fields are not part of the
// update. A nil Items leaves the lines untouched; a non-nil Items is the
// complete new list of lines.
type OrderPatch struct {
	CustomerID   *uint
	OrderDate    *time.Time
	Status       *model.OrderStatus
	Discount     *decimal.Decimal
	DiscountType *pricing.DiscountType
	Notes        *string
	Items        []ItemPatch
}

// ItemPatch is one incoming line. With an ID it edits an existing line;
// without one it adds a line for ProductID.
type ItemPatch struct {
	ID              *uint
	ProductID       *uint
	Quantity        *int
	NetWeight       *decimal.Decimal
	GoldRatePerGram *decimal.Decimal
	BasePrice       *decimal.Decimal
	GSTAmount       *decimal.Decimal
	TotalPrice      *decimal.Decimal
	StoneValue      *decimal.Decimal
}

// PriceNewItem prices a line that is being added. orderDate is the order
// date after the patch has been applied.
type PriceNewItem func(p ItemPatch, orderDate time.Time) (*model.PurchaseOrderItem, error)

// Result is the outcome of diffing an update against the stored order.
type Result struct {
	Record  *UpdatedRecord
	Order   model.PurchaseOrder
	Items   []model.PurchaseOrderItem
	Updated []model.PurchaseOrderItem
	Added   []model.PurchaseOrderItem
	Removed []model.PurchaseOrderItem
}

type itemField struct {
	name  string
	value func(*model.PurchaseOrderItem) string
}

var comparableFields = []itemField{
	{"quantity", func(it *model.PurchaseOrderItem) string { return strconv.Itoa(it.Quantity) }},
	{"netWeight", func(it *model.PurchaseOrderItem) string { return it.NetWeight.String() }},
	{"goldRatePerGram", func(it *model.PurchaseOrderItem) string { return it.GoldRatePerGram.String() }},
	{"basePrice", func(it *model.PurchaseOrderItem) string { return it.BasePrice.String() }},
	{"gstAmount", func(it *model.PurchaseOrderItem) string { return it.GSTAmount.String() }},
	{"totalPrice", func(it *model.PurchaseOrderItem) string { return it.TotalPrice.String() }},
}

// Diff compares prev and prevItems with patch and returns the audit record
// together with the resulting order, lines and line mutations. It does not
// touch storage; newly added lines are priced through price.
func Diff(prev model.PurchaseOrder, prevItems []model.PurchaseOrderItem, patch OrderPatch, price PriceNewItem) (*Result, error) {
	rec := newUpdatedRecord()
	order := prev
	order.Items = nil

	if err := applyOrderFields(&order, patch, rec); err != nil {
		return nil, err
	}

	res := &Result{Record: rec}
	items := prevItems
	if patch.Items != nil {
		var err error
		items, err = diffItems(prevItems, patch.Items, order.OrderDate, price, res)
		if err != nil {
			return nil, err
		}
	}

	totals := pricing.Aggregate(model.Breakdowns(items), order.Discount, order.DiscountType)
	order.ApplyTotals(totals)
	newTotal := order.TotalAmount.String()
	if newTotal != prev.TotalAmount.String() {
		rec.ChangedFields = append(rec.ChangedFields, "totalAmount")
	}
	rec.NewValues["totalAmount"] = newTotal

	res.Order = order
	res.Items = items
	return res, nil
}

func applyOrderFields(order *model.PurchaseOrder, patch OrderPatch, rec *UpdatedRecord) error {
	v := make(validation.Violations)

	change := func(field, before, after string) bool {
		if before == after {
			return false
		}
		rec.ChangedFields = append(rec.ChangedFields, field)
		rec.NewValues[field] = after
		return true
	}

	if patch.CustomerID != nil {
		validation.RequiredID("customerId", *patch.CustomerID, v)
		if change("customerId", fmt.Sprint(order.CustomerID), fmt.Sprint(*patch.CustomerID)) {
			order.CustomerID = *patch.CustomerID
		}
	}
	if patch.OrderDate != nil {
		day := model.Day(*patch.OrderDate)
		if change("orderDate", order.OrderDate.Format(dateLayout), day.Format(dateLayout)) {
			order.OrderDate = day
		}
	}
	if patch.Status != nil {
		next := *patch.Status
		switch {
		case !next.Valid():
			v["status"] = "invalid_choice"
		case !order.Status.CanTransition(next):
			v["status"] = "invalid_transition"
		case change("status", string(order.Status), string(next)):
			order.Status = next
		}
	}
	if patch.Discount != nil {
		validation.NonNegativeDecimal("discount", *patch.Discount, v)
		if change("discount", order.Discount.String(), patch.Discount.String()) {
			order.Discount = *patch.Discount
		}
	}
	if patch.DiscountType != nil {
		dt := *patch.DiscountType
		if dt == "" {
			dt = pricing.DiscountAmount
		}
		if !dt.Valid() {
			v["discountType"] = "invalid_choice"
		} else if change("discountType", string(order.DiscountType), string(dt)) {
			order.DiscountType = dt
		}
	}
	if patch.Notes != nil {
		if change("notes", order.Notes, *patch.Notes) {
			order.Notes = *patch.Notes
		}
	}

	if !v.Empty() {
		return apperror.Validation("invalid order update", v)
	}
	return nil
}

func diffItems(prevItems []model.PurchaseOrderItem, patches []ItemPatch, orderDate time.Time, price PriceNewItem, res *Result) ([]model.PurchaseOrderItem, error) {
	if len(patches) == 0 {
		return nil, apperror.Validation("order must keep at least one item", validation.Violations{"items": "required"})
	}

	remaining := make(map[uint]model.PurchaseOrderItem, len(prevItems))
	for _, it := range prevItems {
		remaining[it.ID] = it
	}
	known := make(map[uint]bool, len(prevItems))
	for _, it := range prevItems {
		known[it.ID] = true
	}

	v := make(validation.Violations)
	var items []model.PurchaseOrderItem

	for i, p := range patches {
		key := fmt.Sprintf("items[%d]", i)

		if p.ID != nil {
			existing, ok := remaining[*p.ID]
			if !ok {
				if known[*p.ID] {
					v[key+".id"] = "duplicate"
				} else {
					v[key+".id"] = "unknown_item"
				}
				continue
			}
			delete(remaining, *p.ID)

			merged := mergeItem(existing, p, key, v)
			if before, after := compareItems(&existing, &merged); len(before) > 0 {
				res.Record.ItemChanges.Updated = append(res.Record.ItemChanges.Updated, UpdatedItem{
					ItemID:    existing.ID,
					ProductID: existing.ProductID,
					Before:    before,
					After:     after,
				})
				res.Updated = append(res.Updated, merged)
			}
			items = append(items, merged)
			continue
		}

		if p.ProductID == nil || *p.ProductID == 0 {
			v[key] = "id_or_product_required"
			continue
		}
		if p.Quantity == nil {
			v[key+".quantity"] = "required"
			continue
		}
		added, err := price(p, orderDate)
		if err != nil {
			return nil, apperror.Prefixed(key, err)
		}
		res.Record.ItemChanges.Added = append(res.Record.ItemChanges.Added, AddedItem{
			ProductID:  added.ProductID,
			Quantity:   added.Quantity,
			TotalPrice: added.TotalPrice.String(),
		})
		res.Added = append(res.Added, *added)
		items = append(items, *added)
	}

	if !v.Empty() {
		return nil, apperror.Validation("invalid order items", v)
	}

	// Removals follow the stored order of lines.
	for _, it := range prevItems {
		if _, ok := remaining[it.ID]; !ok {
			continue
		}
		res.Record.ItemChanges.Removed = append(res.Record.ItemChanges.Removed, RemovedItem{
			ItemID:     it.ID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			TotalPrice: it.TotalPrice.String(),
		})
		res.Removed = append(res.Removed, it)
	}
	return items, nil
}

func mergeItem(it model.PurchaseOrderItem, p ItemPatch, key string, v validation.Violations) model.PurchaseOrderItem {
	if p.ProductID != nil && *p.ProductID != it.ProductID {
		v[key+".productId"] = "immutable"
	}
	if p.Quantity != nil {
		validation.PositiveInt(key+".quantity", *p.Quantity, v)
		it.Quantity = *p.Quantity
	}
	set := func(field string, src *decimal.Decimal, dst *decimal.Decimal) {
		if src == nil {
			return
		}
		validation.NonNegativeDecimal(key+"."+field, *src, v)
		*dst = *src
	}
	set("netWeight", p.NetWeight, &it.NetWeight)
	set("goldRatePerGram", p.GoldRatePerGram, &it.GoldRatePerGram)
	set("basePrice", p.BasePrice, &it.BasePrice)
	set("gstAmount", p.GSTAmount, &it.GSTAmount)
	set("totalPrice", p.TotalPrice, &it.TotalPrice)
	return it
}

func compareItems(before, after *model.PurchaseOrderItem) (map[string]string, map[string]string) {
	b := map[string]string{}
	a := map[string]string{}
	for _, f := range comparableFields {
		if old, cur := f.value(before), f.value(after); old != cur {
			b[f.name] = old
			a[f.name] = cur
		}
	}
	return b, a
}

// Created builds the record for a newly created order.
func Created(o *model.PurchaseOrder, itemCount int) *CreatedRecord {
	return &CreatedRecord{
		OrderNumber: o.OrderNumber,
		ItemCount:   itemCount,
		TotalAmount: o.TotalAmount,
	}
}
