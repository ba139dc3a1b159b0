// Package service implements the billing operations on top of GORM. Every
// function takes the *gorm.DB to run on, so callers can pass a transaction.
package service

import (
	"errors"
	"time"

	"github.com/hashreftech/jewellery-billing-software-sub000/internal/apperror"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/model"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/pricing"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/validation"
	"github.com/hashreftech/jewellery-billing-software-sub000/prometheus"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResolvePrice returns the price of a category on date: the row for that
// exact day, else the latest earlier row. It never falls back to zero or to
// another category.
func ResolvePrice(db *gorm.DB, categoryID uint, date time.Time) (*model.PriceMaster, error) {
	defer prometheus.TrackDBOperation("select_price")(time.Now())

	day := model.Day(date)
	var pm model.PriceMaster
	err := db.Where("category_id = ? AND effective_date <= ?", categoryID, day).
		Order("effective_date desc").
		First(&pm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		prometheus.RecordPriceLookup("not_found")
		return nil, apperror.NotFound("price for category", categoryID)
	}
	if err != nil {
		return nil, apperror.Persistence("failed to resolve price", err)
	}

	if model.Day(pm.EffectiveDate).Equal(day) {
		prometheus.RecordPriceLookup("exact")
	} else {
		prometheus.RecordPriceLookup("fallback")
	}
	return &pm, nil
}

// UpsertPrice writes the price of a category for one day. A second write for
// the same category and day replaces the price.
func UpsertPrice(db *gorm.DB, categoryID uint, pricePerGram decimal.Decimal, date time.Time) (*model.PriceMaster, error) {
	v := make(validation.Violations)
	validation.RequiredID("categoryId", categoryID, v)
	validation.PositiveDecimal("pricePerGram", pricePerGram, v)
	if !v.Empty() {
		return nil, apperror.Validation("invalid price", v)
	}

	if _, err := GetCategory(db, categoryID); err != nil {
		return nil, err
	}

	defer prometheus.TrackDBOperation("upsert_price")(time.Now())

	pm := model.PriceMaster{
		CategoryID:    categoryID,
		PricePerGram:  pricing.Money(pricePerGram),
		EffectiveDate: model.Day(date),
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category_id"}, {Name: "effective_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"price_per_gram", "updated_at"}),
	}).Create(&pm).Error
	if err != nil {
		return nil, apperror.FromDB(err, "price", categoryID)
	}

	// The conflict path does not return the existing id on every driver.
	var stored model.PriceMaster
	if err := db.Where("category_id = ? AND effective_date = ?", categoryID, pm.EffectiveDate).First(&stored).Error; err != nil {
		return nil, apperror.FromDB(err, "price", categoryID)
	}

	prometheus.UpdateGoldRate(categoryID, stored.PricePerGram.InexactFloat64())
	return &stored, nil
}

// ListPrices returns the price history of a category, newest first. A zero
// categoryID lists every category.
func ListPrices(db *gorm.DB, categoryID uint, limit int) ([]model.PriceMaster, error) {
	defer prometheus.TrackDBOperation("select_prices")(time.Now())

	q := db.Order("effective_date desc, category_id")
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var prices []model.PriceMaster
	if err := q.Find(&prices).Error; err != nil {
		return nil, apperror.Persistence("failed to list prices", err)
	}
	return prices, nil
}

// QuoteInput asks for the price of a product without creating an order.
type QuoteInput struct {
	ProductID  uint
	Quantity   int
	Date       time.Time
	StoneValue *decimal.Decimal
}

// Quote prices a product from the current catalogue and price master.
func Quote(db *gorm.DB, in QuoteInput) (*pricing.ItemPriceBreakdown, error) {
	v := make(validation.Violations)
	validation.RequiredID("productId", in.ProductID, v)
	validation.PositiveInt("quantity", in.Quantity, v)
	if !v.Empty() {
		return nil, apperror.Validation("invalid quote request", v)
	}
	return priceProduct(db, in.ProductID, in.Quantity, in.StoneValue, in.Date)
}

// priceProduct prices a product from live data: its category's price on
// date and the category tax rate.
func priceProduct(db *gorm.DB, productID uint, quantity int, stoneValue *decimal.Decimal, date time.Time) (*pricing.ItemPriceBreakdown, error) {
	product, err := GetProduct(db, productID)
	if err != nil {
		return nil, err
	}
	category, err := GetCategory(db, product.CategoryID)
	if err != nil {
		return nil, err
	}
	price, err := ResolvePrice(db, product.CategoryID, date)
	if err != nil {
		return nil, err
	}
	return pricing.PriceItem(product.PricingSpec(), quantity, price.PricePerGram, category.TaxPercentage, stoneValue)
}
