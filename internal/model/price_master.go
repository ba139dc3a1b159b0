package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceMaster is the price per gram of a category effective from a date
// until a later row supersedes it.
type PriceMaster struct {
	ID            uint             `json:"id" gorm:"primaryKey"`
	CategoryID    uint             `json:"categoryId" gorm:"not null;uniqueIndex:idx_price_category_date"`
	Category      *ProductCategory `json:"category,omitempty"`
	PricePerGram  decimal.Decimal  `json:"pricePerGram" gorm:"type:decimal(14,2);not null"`
	EffectiveDate time.Time        `json:"effectiveDate" gorm:"type:date;not null;uniqueIndex:idx_price_category_date"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

func (PriceMaster) TableName() string { return "price_master" }

// Day keeps the calendar day of t and drops the clock, as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
