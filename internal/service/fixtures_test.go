package service

import (
	"testing"
	"time"

	"github.com/hashreftech/jewellery-billing-software-sub000/internal/model"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/pricing"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/database/dbtest"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	day1 = time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

type fixture struct {
	db       *gorm.DB
	category *model.ProductCategory
	ring     *model.Product
	chain    *model.Product
	customer *model.Customer
}

// newFixture seeds a 22K category priced at 6500 on day1 with two products
// and one customer.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)

	f := &fixture{db: db}
	f.category = &model.ProductCategory{Name: "Gold 22K", Code: "GOLD22", TaxPercentage: dec("3"), HSNCode: "7113"}
	if err := CreateCategory(db, f.category); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	f.ring = &model.Product{
		Name:               "Ring",
		Barcode:            "RING-001",
		Purity:             "22K",
		NetWeight:          decimal.NewNullDecimal(dec("15.5")),
		GrossWeight:        dec("15.5"),
		CategoryID:         f.category.ID,
		MakingChargeType:   pricing.ChargePerGram,
		MakingChargeValue:  dec("200"),
		WastageChargeType:  pricing.ChargePercentage,
		WastageChargeValue: dec("8"),
	}
	if err := CreateProduct(db, f.ring); err != nil {
		t.Fatalf("seed ring: %v", err)
	}
	f.chain = &model.Product{
		Name:               "Chain",
		Barcode:            "CHAIN-001",
		Purity:             "22K",
		NetWeight:          decimal.NewNullDecimal(dec("10")),
		GrossWeight:        dec("10"),
		CategoryID:         f.category.ID,
		MakingChargeType:   pricing.ChargeFixed,
		MakingChargeValue:  dec("1000"),
		WastageChargeType:  pricing.ChargePerPiece,
		WastageChargeValue: dec("150"),
	}
	if err := CreateProduct(db, f.chain); err != nil {
		t.Fatalf("seed chain: %v", err)
	}
	f.customer = &model.Customer{Name: "Meena", Phone: "9000000001"}
	if err := CreateCustomer(db, f.customer); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	if _, err := UpsertPrice(db, f.category.ID, dec("6500"), day1); err != nil {
		t.Fatalf("seed price: %v", err)
	}
	return f
}

func (f *fixture) createRingOrder(t *testing.T, qty int) *model.PurchaseOrder {
	t.Helper()
	o, err := CreatePurchaseOrder(f.db, CreateOrderInput{
		CustomerID: f.customer.ID,
		Items:      []NewOrderItem{{ProductID: f.ring.ID, Quantity: qty}},
	}, 1, day2)
	if err != nil {
		t.Fatalf("CreatePurchaseOrder() error = %v", err)
	}
	return o
}

func assertDec(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}
