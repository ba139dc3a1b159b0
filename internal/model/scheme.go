package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SchemeStatus string

const (
	SchemeActive SchemeStatus = "active"
	SchemeClosed SchemeStatus = "closed"
)

// SchemeEnrollment is a customer's monthly savings scheme card.
type SchemeEnrollment struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	CardNumber     string          `json:"cardNumber" gorm:"type:varchar(20);uniqueIndex;not null"`
	CustomerID     uint            `json:"customerId" gorm:"index;not null"`
	Customer       *Customer       `json:"customer,omitempty"`
	SchemeName     string          `json:"schemeName" gorm:"type:varchar(100);not null"`
	MonthlyAmount  decimal.Decimal `json:"monthlyAmount" gorm:"type:decimal(14,2);not null"`
	DurationMonths int             `json:"durationMonths" gorm:"not null"`
	StartDate      time.Time       `json:"startDate" gorm:"type:date;not null"`
	Status         SchemeStatus    `json:"status" gorm:"type:varchar(10);not null;default:'active'"`
	CreatedBy      uint            `json:"createdBy"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
