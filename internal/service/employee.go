package service

import (
	"time"

	"github.com/hashreftech/jewellery-billing-software-sub000/internal/apperror"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/model"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/validation"
	"github.com/hashreftech/jewellery-billing-software-sub000/prometheus"

	"gorm.io/gorm"
)

// CreateEmployee assigns the next employee code and stores the employee.
func CreateEmployee(db *gorm.DB, e *model.Employee) error {
	v := make(validation.Violations)
	validation.Required("name", e.Name, v)
	if !v.Empty() {
		return apperror.Validation("invalid employee", v)
	}
	if e.Role == "" {
		e.Role = "staff"
	}

	return db.Transaction(func(tx *gorm.DB) error {
		code, err := NextEmployeeCode(tx)
		if err != nil {
			return err
		}
		e.EmployeeCode = code
		e.IsActive = true

		defer prometheus.TrackDBOperation("insert_employee")(time.Now())
		if err := tx.Create(e).Error; err != nil {
			return apperror.FromDB(err, "employee "+code, e.Name)
		}
		prometheus.RecordMasterData("employee", "create")
		return nil
	})
}

func ListEmployees(db *gorm.DB, activeOnly bool) ([]model.Employee, error) {
	defer prometheus.TrackDBOperation("select_employees")(time.Now())
	q := db.Order("employee_code")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []model.Employee
	if err := q.Find(&out).Error; err != nil {
		return nil, apperror.Persistence("failed to list employees", err)
	}
	return out, nil
}
