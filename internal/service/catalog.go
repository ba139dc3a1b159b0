package service

import (
	"time"

	"github.com/hashreftech/jewellery-billing-software-sub000/internal/apperror"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/model"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/config"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/validation"
	"github.com/hashreftech/jewellery-billing-software-sub000/prometheus"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var maxTaxPercentage = decimal.NewFromInt(100)

func validateCategory(c *model.ProductCategory) error {
	v := make(validation.Violations)
	validation.Required("name", c.Name, v)
	validation.Required("code", c.Code, v)
	validation.RangeDecimal("taxPercentage", c.TaxPercentage, decimal.Zero, maxTaxPercentage, v)
	if !v.Empty() {
		return apperror.Validation("invalid category", v)
	}
	return nil
}

func CreateCategory(db *gorm.DB, c *model.ProductCategory) error {
	if err := validateCategory(c); err != nil {
		return err
	}
	defer prometheus.TrackDBOperation("insert_category")(time.Now())
	if err := db.Create(c).Error; err != nil {
		return apperror.FromDB(err, "category", c.Code)
	}
	prometheus.RecordMasterData("category", "create")
	return nil
}

func GetCategory(db *gorm.DB, id uint) (*model.ProductCategory, error) {
	defer prometheus.TrackDBOperation("select_category")(time.Now())
	var c model.ProductCategory
	if err := db.First(&c, id).Error; err != nil {
		return nil, apperror.FromDB(err, "category", id)
	}
	return &c, nil
}

func ListCategories(db *gorm.DB) ([]model.ProductCategory, error) {
	defer prometheus.TrackDBOperation("select_categories")(time.Now())
	var out []model.ProductCategory
	if err := db.Order("name").Find(&out).Error; err != nil {
		return nil, apperror.Persistence("failed to list categories", err)
	}
	return out, nil
}

// UpdateCategory overwrites the editable fields of a category.
func UpdateCategory(db *gorm.DB, id uint, in *model.ProductCategory) (*model.ProductCategory, error) {
	c, err := GetCategory(db, id)
	if err != nil {
		return nil, err
	}
	c.Name = in.Name
	c.Code = in.Code
	c.TaxPercentage = in.TaxPercentage
	c.HSNCode = in.HSNCode
	if err := validateCategory(c); err != nil {
		return nil, err
	}

	defer prometheus.TrackDBOperation("update_category")(time.Now())
	if err := db.Save(c).Error; err != nil {
		return nil, apperror.FromDB(err, "category", id)
	}
	prometheus.RecordMasterData("category", "update")
	return c, nil
}

// DeleteCategory removes a category unless its code is protected or
// products still reference it.
func DeleteCategory(db *gorm.DB, id uint, rules config.BusinessConfig) error {
	c, err := GetCategory(db, id)
	if err != nil {
		return err
	}
	if rules.IsProtectedCategory(c.Code) {
		prometheus.RecordProtectedDelete()
		return apperror.Protected("category " + c.Code + " is protected and cannot be deleted")
	}

	defer prometheus.TrackDBOperation("delete_category")(time.Now())
	var inUse int64
	if err := db.Model(&model.Product{}).Where("category_id = ?", id).Count(&inUse).Error; err != nil {
		return apperror.Persistence("failed to check category usage", err)
	}
	if inUse > 0 {
		return apperror.Validation("category is used by products", validation.Violations{"id": "in_use"})
	}
	if err := db.Delete(c).Error; err != nil {
		return apperror.FromDB(err, "category", id)
	}
	prometheus.RecordMasterData("category", "delete")
	return nil
}

func validateProduct(db *gorm.DB, p *model.Product) error {
	v := make(validation.Violations)
	validation.Required("name", p.Name, v)
	validation.Required("barcode", p.Barcode, v)
	validation.RequiredID("categoryId", p.CategoryID, v)
	if p.Type == "" {
		p.Type = model.ProductNoStone
	}
	validation.OneOf("type", string(p.Type), model.ProductTypes, v)
	if p.MakingChargeType != "" {
		validation.OneOf("makingChargeType", string(p.MakingChargeType), model.MakingChargeTypes, v)
	}
	if p.WastageChargeType != "" {
		validation.OneOf("wastageChargeType", string(p.WastageChargeType), model.WastageChargeTypes, v)
	}
	if p.NetWeight.Valid {
		validation.NonNegativeDecimal("netWeight", p.NetWeight.Decimal, v)
	}
	if p.Weight.Valid {
		validation.NonNegativeDecimal("weight", p.Weight.Decimal, v)
	}
	if p.StoneWeight.Valid {
		validation.NonNegativeDecimal("stoneWeight", p.StoneWeight.Decimal, v)
	}
	if p.AdditionalCost.Valid {
		validation.NonNegativeDecimal("additionalCost", p.AdditionalCost.Decimal, v)
	}
	validation.NonNegativeDecimal("grossWeight", p.GrossWeight, v)
	validation.NonNegativeDecimal("makingChargeValue", p.MakingChargeValue, v)
	validation.NonNegativeDecimal("wastageChargeValue", p.WastageChargeValue, v)
	if !v.Empty() {
		return apperror.Validation("invalid product", v)
	}

	if _, err := GetCategory(db, p.CategoryID); err != nil {
		return err
	}
	if p.DealerID != nil {
		if _, err := GetDealer(db, *p.DealerID); err != nil {
			return err
		}
	}
	return nil
}

func CreateProduct(db *gorm.DB, p *model.Product) error {
	if err := validateProduct(db, p); err != nil {
		return err
	}
	defer prometheus.TrackDBOperation("insert_product")(time.Now())
	if err := db.Create(p).Error; err != nil {
		return apperror.FromDB(err, "product", p.Barcode)
	}
	prometheus.RecordMasterData("product", "create")
	return nil
}

func GetProduct(db *gorm.DB, id uint) (*model.Product, error) {
	defer prometheus.TrackDBOperation("select_product")(time.Now())
	var p model.Product
	if err := db.First(&p, id).Error; err != nil {
		return nil, apperror.FromDB(err, "product", id)
	}
	return &p, nil
}

// ProductFilter narrows ListProducts. Zero values do not filter.
type ProductFilter struct {
	CategoryID uint
	DealerID   uint
	Barcode    string
}

func ListProducts(db *gorm.DB, f ProductFilter) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("select_products")(time.Now())
	q := db.Order("name")
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.DealerID != 0 {
		q = q.Where("dealer_id = ?", f.DealerID)
	}
	if f.Barcode != "" {
		q = q.Where("barcode = ?", f.Barcode)
	}
	var out []model.Product
	if err := q.Find(&out).Error; err != nil {
		return nil, apperror.Persistence("failed to list products", err)
	}
	return out, nil
}

// UpdateProduct replaces a product's catalogue data. Existing order lines
// keep their snapshot and are not affected.
func UpdateProduct(db *gorm.DB, id uint, in *model.Product) (*model.Product, error) {
	existing, err := GetProduct(db, id)
	if err != nil {
		return nil, err
	}
	p := *in
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	p.Dealer = nil
	p.Category = nil
	if err := validateProduct(db, &p); err != nil {
		return nil, err
	}

	defer prometheus.TrackDBOperation("update_product")(time.Now())
	if err := db.Save(&p).Error; err != nil {
		return nil, apperror.FromDB(err, "product", id)
	}
	prometheus.RecordMasterData("product", "update")
	return &p, nil
}

func DeleteProduct(db *gorm.DB, id uint) error {
	p, err := GetProduct(db, id)
	if err != nil {
		return err
	}
	defer prometheus.TrackDBOperation("delete_product")(time.Now())
	if err := db.Delete(p).Error; err != nil {
		return apperror.FromDB(err, "product", id)
	}
	prometheus.RecordMasterData("product", "delete")
	return nil
}

func CreateCustomer(db *gorm.DB, c *model.Customer) error {
	v := make(validation.Violations)
	validation.Required("name", c.Name, v)
	validation.Required("phone", c.Phone, v)
	if !v.Empty() {
		return apperror.Validation("invalid customer", v)
	}
	defer prometheus.TrackDBOperation("insert_customer")(time.Now())
	if err := db.Create(c).Error; err != nil {
		return apperror.FromDB(err, "customer", c.Phone)
	}
	prometheus.RecordMasterData("customer", "create")
	return nil
}

func GetCustomer(db *gorm.DB, id uint) (*model.Customer, error) {
	defer prometheus.TrackDBOperation("select_customer")(time.Now())
	var c model.Customer
	if err := db.First(&c, id).Error; err != nil {
		return nil, apperror.FromDB(err, "customer", id)
	}
	return &c, nil
}

func ListCustomers(db *gorm.DB, search string) ([]model.Customer, error) {
	defer prometheus.TrackDBOperation("select_customers")(time.Now())
	q := db.Order("name")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR phone LIKE ?", like, like)
	}
	var out []model.Customer
	if err := q.Find(&out).Error; err != nil {
		return nil, apperror.Persistence("failed to list customers", err)
	}
	return out, nil
}

func CreateDealer(db *gorm.DB, d *model.Dealer) error {
	v := make(validation.Violations)
	validation.Required("name", d.Name, v)
	validation.Required("code", d.Code, v)
	if !v.Empty() {
		return apperror.Validation("invalid dealer", v)
	}
	defer prometheus.TrackDBOperation("insert_dealer")(time.Now())
	if err := db.Create(d).Error; err != nil {
		return apperror.FromDB(err, "dealer", d.Code)
	}
	prometheus.RecordMasterData("dealer", "create")
	return nil
}

func GetDealer(db *gorm.DB, id uint) (*model.Dealer, error) {
	defer prometheus.TrackDBOperation("select_dealer")(time.Now())
	var d model.Dealer
	if err := db.First(&d, id).Error; err != nil {
		return nil, apperror.FromDB(err, "dealer", id)
	}
	return &d, nil
}

func ListDealers(db *gorm.DB) ([]model.Dealer, error) {
	defer prometheus.TrackDBOperation("select_dealers")(time.Now())
	var out []model.Dealer
	if err := db.Order("name").Find(&out).Error; err != nil {
		return nil, apperror.Persistence("failed to list dealers", err)
	}
	return out, nil
}
