package model

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrAuditLogImmutable = errors.New("audit log entries cannot be modified")

// PurchaseOrderAuditLog records one create or update transaction on an order.
// Rows are append-only.
type PurchaseOrderAuditLog struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	PurchaseOrderID uint           `json:"purchaseOrderId" gorm:"index;not null"`
	UpdatedBy       uint           `json:"updatedBy"`
	UpdatedAt       time.Time      `json:"updatedAt" gorm:"autoUpdateTime:false;not null"`
	Changes         datatypes.JSON `json:"changes" gorm:"not null"`
}

func (PurchaseOrderAuditLog) TableName() string { return "purchase_order_audit_log" }

func (l *PurchaseOrderAuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (l *PurchaseOrderAuditLog) BeforeUpdate(tx *gorm.DB) error { return ErrAuditLogImmutable }

func (l *PurchaseOrderAuditLog) BeforeDelete(tx *gorm.DB) error { return ErrAuditLogImmutable }
