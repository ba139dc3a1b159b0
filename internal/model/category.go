package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductCategory is a tax and pricing bucket such as Gold 22K.
type ProductCategory struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Name          string          `json:"name" gorm:"type:varchar(100);not null"`
	Code          string          `json:"code" gorm:"type:varchar(30);uniqueIndex;not null"`
	TaxPercentage decimal.Decimal `json:"taxPercentage" gorm:"type:decimal(6,2);not null;default:0"`
	HSNCode       string          `json:"hsnCode" gorm:"type:varchar(20)"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt  `json:"-" gorm:"index"`
}

// Dealer supplies products to the shop.
type Dealer struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Code      string         `json:"code" gorm:"type:varchar(30);uniqueIndex;not null"`
	Phone     string         `json:"phone" gorm:"type:varchar(20)"`
	GSTNumber string         `json:"gstNumber" gorm:"type:varchar(20)"`
	Address   string         `json:"address" gorm:"type:text"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Customer buys from the shop and may hold scheme cards.
type Customer struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Phone     string         `json:"phone" gorm:"type:varchar(20);uniqueIndex;not null"`
	Email     string         `json:"email" gorm:"type:varchar(100)"`
	Address   string         `json:"address" gorm:"type:text"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
