package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hashreftech/jewellery-billing-software-sub000/internal/apperror"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/model"
	"github.com/hashreftech/jewellery-billing-software-sub000/prometheus"

	"gorm.io/gorm"
)

// NextOrderNumber returns the next PO-YYYYMMDD-### number for today.
//
// The number is read-then-incremented. Two concurrent creators can compute
// the same value; the unique index on order_number rejects the second insert
// and the caller sees a retryable conflict.
func NextOrderNumber(db *gorm.DB, today time.Time) (string, error) {
	prefix := "PO-" + today.Format("20060102") + "-"
	return nextInSequence(db, &model.PurchaseOrder{}, "order_number", prefix)
}

// NextCardNumber returns the next SCH-YYYYMMDD-### scheme card number for today.
func NextCardNumber(db *gorm.DB, today time.Time) (string, error) {
	prefix := "SCH-" + today.Format("20060102") + "-"
	return nextInSequence(db, &model.SchemeEnrollment{}, "card_number", prefix)
}

// NextEmployeeCode returns the next EMP-### code across all employees.
func NextEmployeeCode(db *gorm.DB) (string, error) {
	return nextInSequence(db, &model.Employee{}, "employee_code", "EMP-")
}

func nextInSequence(db *gorm.DB, table any, column, prefix string) (string, error) {
	defer prometheus.TrackDBOperation("select_sequence")(time.Now())

	var existing []string
	err := db.Model(table).
		Where(column+" LIKE ?", prefix+"%").
		Pluck(column, &existing).Error
	if err != nil {
		return "", apperror.Persistence("failed to read identifier sequence", err)
	}

	highest := 0
	for _, id := range existing {
		n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, highest+1), nil
}
