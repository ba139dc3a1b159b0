package service

import (
	"time"

	"github.com/hashreftech/jewellery-billing-software-sub000/internal/apperror"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/model"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/validation"
	"github.com/hashreftech/jewellery-billing-software-sub000/prometheus"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EnrollInput struct {
	CustomerID     uint
	SchemeName     string
	MonthlyAmount  decimal.Decimal
	DurationMonths int
	StartDate      *time.Time
}

// EnrollScheme opens a savings scheme card numbered for today.
func EnrollScheme(db *gorm.DB, in EnrollInput, actor uint, today time.Time) (*model.SchemeEnrollment, error) {
	v := make(validation.Violations)
	validation.RequiredID("customerId", in.CustomerID, v)
	validation.Required("schemeName", in.SchemeName, v)
	validation.PositiveDecimal("monthlyAmount", in.MonthlyAmount, v)
	validation.PositiveInt("durationMonths", in.DurationMonths, v)
	if !v.Empty() {
		return nil, apperror.Validation("invalid scheme enrollment", v)
	}

	start := model.Day(today)
	if in.StartDate != nil {
		start = model.Day(*in.StartDate)
	}

	var e model.SchemeEnrollment
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := GetCustomer(tx, in.CustomerID); err != nil {
			return err
		}
		card, err := NextCardNumber(tx, today)
		if err != nil {
			return err
		}
		e = model.SchemeEnrollment{
			CardNumber:     card,
			CustomerID:     in.CustomerID,
			SchemeName:     in.SchemeName,
			MonthlyAmount:  in.MonthlyAmount,
			DurationMonths: in.DurationMonths,
			StartDate:      start,
			Status:         model.SchemeActive,
			CreatedBy:      actor,
		}
		defer prometheus.TrackDBOperation("insert_scheme")(time.Now())
		if err := tx.Create(&e).Error; err != nil {
			return apperror.FromDB(err, "scheme card "+card, in.CustomerID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	prometheus.RecordMasterData("scheme", "create")
	return &e, nil
}

func ListSchemes(db *gorm.DB, customerID uint) ([]model.SchemeEnrollment, error) {
	defer prometheus.TrackDBOperation("select_schemes")(time.Now())
	q := db.Preload("Customer").Order("id desc")
	if customerID != 0 {
		q = q.Where("customer_id = ?", customerID)
	}
	var out []model.SchemeEnrollment
	if err := q.Find(&out).Error; err != nil {
		return nil, apperror.Persistence("failed to list schemes", err)
	}
	return out, nil
}
