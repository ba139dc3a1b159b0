package model

import "time"

// Employee is a member of shop staff.
type Employee struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	EmployeeCode string    `json:"employeeCode" gorm:"type:varchar(20);uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	Phone        string    `json:"phone" gorm:"type:varchar(20)"`
	Role         string    `json:"role" gorm:"type:varchar(30);not null;default:'staff'"`
	IsActive     bool      `json:"isActive" gorm:"default:true"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// All lists every model for auto-migration.
func All() []any {
	return []any{
		&ProductCategory{},
		&Dealer{},
		&Customer{},
		&Product{},
		&PriceMaster{},
		&PurchaseOrder{},
		&PurchaseOrderItem{},
		&PurchaseOrderAuditLog{},
		&SchemeEnrollment{},
		&Employee{},
	}
}
