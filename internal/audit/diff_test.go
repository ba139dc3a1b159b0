package audit

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/hashreftech/jewellery-billing-software-sub000/internal/apperror"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/model"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/pricing"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/validation"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func item(id, productID uint, qty int, total string) model.PurchaseOrderItem {
	return model.PurchaseOrderItem{
		ID:              id,
		ProductID:       productID,
		Quantity:        qty,
		NetWeight:       dec("1"),
		GrossWeight:     dec("1"),
		GoldRatePerGram: dec("1000"),
		BasePrice:       dec(total),
		TotalPrice:      dec(total),
	}
}

func order(items ...model.PurchaseOrderItem) model.PurchaseOrder {
	o := model.PurchaseOrder{
		ID:           1,
		OrderNumber:  "PO-20240105-001",
		CustomerID:   3,
		OrderDate:    time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Status:       model.StatusPending,
		DiscountType: pricing.DiscountAmount,
	}
	o.ApplyTotals(pricing.Aggregate(model.Breakdowns(items), o.Discount, o.DiscountType))
	return o
}

func noPricing(t *testing.T) PriceNewItem {
	return func(ItemPatch, time.Time) (*model.PurchaseOrderItem, error) {
		t.Fatal("unexpected pricing call")
		return nil, nil
	}
}

func TestDiffQuantityChange(t *testing.T) {
	prevItems := []model.PurchaseOrderItem{item(5, 9, 1, "1000")}
	prev := order(prevItems...)

	patch := OrderPatch{Items: []ItemPatch{{ID: ptr(uint(5)), Quantity: ptr(2), TotalPrice: ptr(dec("2000"))}}}
	res, err := Diff(prev, prevItems, patch, noPricing(t))
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	updated := res.Record.ItemChanges.Updated
	if len(updated) != 1 || updated[0].ItemID != 5 {
		t.Fatalf("updated = %+v, want one entry for item 5", updated)
	}
	if updated[0].Before["quantity"] != "1" || updated[0].After["quantity"] != "2" {
		t.Errorf("quantity before/after = %q/%q", updated[0].Before["quantity"], updated[0].After["quantity"])
	}
	if updated[0].Before["totalPrice"] != "1000" || updated[0].After["totalPrice"] != "2000" {
		t.Errorf("totalPrice before/after = %q/%q", updated[0].Before["totalPrice"], updated[0].After["totalPrice"])
	}
	if _, ok := updated[0].Before["basePrice"]; ok {
		t.Errorf("unchanged basePrice should not be recorded")
	}
	if len(res.Updated) != 1 || res.Updated[0].Quantity != 2 {
		t.Errorf("res.Updated = %+v", res.Updated)
	}
	if got := res.Record.NewValues["totalAmount"]; got != "4000" {
		t.Errorf("totalAmount = %q, want 4000", got)
	}
	if !reflect.DeepEqual(res.Record.ChangedFields, []string{"totalAmount"}) {
		t.Errorf("ChangedFields = %v", res.Record.ChangedFields)
	}
}

func TestDiffRemoval(t *testing.T) {
	a := item(1, 10, 1, "500")
	b := item(2, 11, 2, "700")
	prevItems := []model.PurchaseOrderItem{a, b}
	prev := order(prevItems...)

	res, err := Diff(prev, prevItems, OrderPatch{Items: []ItemPatch{{ID: ptr(uint(1))}}}, noPricing(t))
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	removed := res.Record.ItemChanges.Removed
	if len(removed) != 1 || removed[0].ItemID != 2 || removed[0].ProductID != 11 {
		t.Fatalf("removed = %+v, want exactly item 2", removed)
	}
	if len(res.Removed) != 1 || res.Removed[0].ID != 2 {
		t.Errorf("res.Removed = %+v", res.Removed)
	}
	if len(res.Items) != 1 || res.Items[0].ID != 1 {
		t.Errorf("res.Items = %+v", res.Items)
	}
	if !res.Order.TotalAmount.Equal(dec("500")) {
		t.Errorf("TotalAmount = %s, want 500", res.Order.TotalAmount)
	}
}

func TestDiffIdenticalUpdate(t *testing.T) {
	prevItems := []model.PurchaseOrderItem{item(1, 10, 1, "500"), item(2, 11, 2, "700")}
	prev := order(prevItems...)

	var patches []ItemPatch
	for _, it := range prevItems {
		patches = append(patches, ItemPatch{
			ID:              ptr(it.ID),
			ProductID:       ptr(it.ProductID),
			Quantity:        ptr(it.Quantity),
			NetWeight:       ptr(dec("1.000")),
			GoldRatePerGram: ptr(dec("1000.00")),
			BasePrice:       ptr(it.BasePrice),
			TotalPrice:      ptr(it.TotalPrice),
		})
	}
	patch := OrderPatch{
		CustomerID: ptr(uint(3)),
		Status:     ptr(model.StatusPending),
		Discount:   ptr(dec("0.00")),
		Items:      patches,
	}

	res, err := Diff(prev, prevItems, patch, noPricing(t))
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if len(res.Record.ChangedFields) != 0 {
		t.Errorf("ChangedFields = %v, want empty", res.Record.ChangedFields)
	}
	ic := res.Record.ItemChanges
	if len(ic.Updated) != 0 || len(ic.Added) != 0 || len(ic.Removed) != 0 {
		t.Errorf("ItemChanges = %+v, want empty", ic)
	}
	if res.Record.NewValues["totalAmount"] != "1900" {
		t.Errorf("totalAmount = %q, want 1900", res.Record.NewValues["totalAmount"])
	}
}

func TestDiffAddsItem(t *testing.T) {
	prevItems := []model.PurchaseOrderItem{item(1, 10, 1, "500")}
	prev := order(prevItems...)
	newDate := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)

	var pricedOn time.Time
	price := func(p ItemPatch, day time.Time) (*model.PurchaseOrderItem, error) {
		pricedOn = day
		it := item(0, *p.ProductID, *p.Quantity, "250")
		return &it, nil
	}
	patch := OrderPatch{
		OrderDate: &newDate,
		Items:     []ItemPatch{{ID: ptr(uint(1))}, {ProductID: ptr(uint(42)), Quantity: ptr(2)}},
	}
	res, err := Diff(prev, prevItems, patch, price)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if !pricedOn.Equal(newDate) {
		t.Errorf("priced on %v, want patched order date", pricedOn)
	}
	added := res.Record.ItemChanges.Added
	if len(added) != 1 || added[0].ProductID != 42 || added[0].Quantity != 2 || added[0].TotalPrice != "250" {
		t.Fatalf("added = %+v", added)
	}
	if res.Record.NewValues["orderDate"] != "2024-01-06" {
		t.Errorf("orderDate = %q", res.Record.NewValues["orderDate"])
	}
	if !reflect.DeepEqual(res.Record.ChangedFields, []string{"orderDate", "totalAmount"}) {
		t.Errorf("ChangedFields = %v", res.Record.ChangedFields)
	}
}

func TestDiffOrderFields(t *testing.T) {
	prevItems := []model.PurchaseOrderItem{item(1, 10, 2, "500")}
	prev := order(prevItems...)

	patch := OrderPatch{
		Status:       ptr(model.StatusConfirmed),
		Discount:     ptr(dec("10")),
		DiscountType: ptr(pricing.DiscountPercentage),
		Notes:        ptr("gift wrap"),
	}
	res, err := Diff(prev, prevItems, patch, noPricing(t))
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	want := []string{"status", "discount", "discountType", "notes", "totalAmount"}
	if !reflect.DeepEqual(res.Record.ChangedFields, want) {
		t.Errorf("ChangedFields = %v, want %v", res.Record.ChangedFields, want)
	}
	if res.Order.Status != model.StatusConfirmed {
		t.Errorf("Status = %s", res.Order.Status)
	}
	if !res.Order.TotalAmount.Equal(dec("900")) {
		t.Errorf("TotalAmount = %s, want 900", res.Order.TotalAmount)
	}
	if len(res.Items) != 1 {
		t.Errorf("items should be untouched, got %d", len(res.Items))
	}
}

func TestDiffValidation(t *testing.T) {
	prevItems := []model.PurchaseOrderItem{item(1, 10, 1, "500")}
	prev := order(prevItems...)

	tests := []struct {
		name  string
		patch OrderPatch
		field string
	}{
		{"unknown id", OrderPatch{Items: []ItemPatch{{ID: ptr(uint(99))}}}, "items[0].id"},
		{"duplicate id", OrderPatch{Items: []ItemPatch{{ID: ptr(uint(1))}, {ID: ptr(uint(1))}}}, "items[1].id"},
		{"no id or product", OrderPatch{Items: []ItemPatch{{Quantity: ptr(1)}}}, "items[0]"},
		{"zero quantity", OrderPatch{Items: []ItemPatch{{ID: ptr(uint(1)), Quantity: ptr(0)}}}, "items[0].quantity"},
		{"empty items", OrderPatch{Items: []ItemPatch{}}, "items"},
		{"bad transition", OrderPatch{Status: ptr(model.StatusInvoiced)}, "status"},
		{"unknown status", OrderPatch{Status: ptr(model.OrderStatus("lost"))}, "status"},
		{"bad discount type", OrderPatch{DiscountType: ptr(pricing.DiscountType("voucher"))}, "discountType"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Diff(prev, prevItems, tt.patch, noPricing(t))
			var appErr *apperror.Error
			if !errors.As(err, &appErr) || appErr.Kind != apperror.KindValidation {
				t.Fatalf("error = %v, want validation error", err)
			}
			if _, ok := appErr.Fields[tt.field]; !ok {
				t.Errorf("fields = %v, want %s", appErr.Fields, tt.field)
			}
		})
	}
}

func TestDiffKeysPricingErrorsByItem(t *testing.T) {
	prevItems := []model.PurchaseOrderItem{item(1, 10, 1, "500")}
	prev := order(prevItems...)
	reject := func(ItemPatch, time.Time) (*model.PurchaseOrderItem, error) {
		return nil, apperror.Validation("invalid pricing input", validation.Violations{"quantity": "must_be_positive"})
	}

	patch := OrderPatch{Items: []ItemPatch{{ID: ptr(uint(1))}, {ProductID: ptr(uint(11)), Quantity: ptr(0)}}}
	_, err := Diff(prev, prevItems, patch, reject)
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperror.KindValidation {
		t.Fatalf("error = %v, want validation error", err)
	}
	if appErr.Fields["items[1].quantity"] != "must_be_positive" {
		t.Errorf("fields = %v, want items[1].quantity", appErr.Fields)
	}
}
