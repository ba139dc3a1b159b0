package handler

import (
	"net/http"

	"github.com/hashreftech/jewellery-billing-software-sub000/internal/model"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/pricing"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/service"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CategoryRequest defines the structure for category creation/update requests
type CategoryRequest struct {
	Name          string          `json:"name"`
	Code          string          `json:"code"`
	TaxPercentage decimal.Decimal `json:"taxPercentage"`
	HSNCode       string          `json:"hsnCode"`
}

func (r CategoryRequest) model() *model.ProductCategory {
	return &model.ProductCategory{
		Name:          r.Name,
		Code:          r.Code,
		TaxPercentage: r.TaxPercentage,
		HSNCode:       r.HSNCode,
	}
}

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name               string              `json:"name"`
	Barcode            string              `json:"barcode"`
	Type               model.ProductType   `json:"type"`
	Purity             string              `json:"purity"`
	NetWeight          decimal.NullDecimal `json:"netWeight"`
	Weight             decimal.NullDecimal `json:"weight"`
	GrossWeight        decimal.Decimal     `json:"grossWeight"`
	StoneWeight        decimal.NullDecimal `json:"stoneWeight"`
	DealerID           *uint               `json:"dealerId"`
	CategoryID         uint                `json:"categoryId"`
	MakingChargeType   pricing.ChargeType  `json:"makingChargeType"`
	MakingChargeValue  decimal.Decimal     `json:"makingChargeValue"`
	WastageChargeType  pricing.ChargeType  `json:"wastageChargeType"`
	WastageChargeValue decimal.Decimal     `json:"wastageChargeValue"`
	AdditionalCost     decimal.NullDecimal `json:"additionalCost"`
}

func (r ProductRequest) model() *model.Product {
	return &model.Product{
		Name:               r.Name,
		Barcode:            r.Barcode,
		Type:               r.Type,
		Purity:             r.Purity,
		NetWeight:          r.NetWeight,
		Weight:             r.Weight,
		GrossWeight:        r.GrossWeight,
		StoneWeight:        r.StoneWeight,
		DealerID:           r.DealerID,
		CategoryID:         r.CategoryID,
		MakingChargeType:   r.MakingChargeType,
		MakingChargeValue:  r.MakingChargeValue,
		WastageChargeType:  r.WastageChargeType,
		WastageChargeValue: r.WastageChargeValue,
		AdditionalCost:     r.AdditionalCost,
	}
}

// ListCategories handles retrieving all categories
func ListCategories(c echo.Context) error {
	categories, err := service.ListCategories(db(c))
	if err != nil {
		return respondError(c, err)
	}
	logger.FromContext(c).Info("Categories retrieved", zap.Int("count", len(categories)))
	return c.JSON(http.StatusOK, categories)
}

// GetCategory handles retrieving a single category by ID
func GetCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	category, err := service.GetCategory(db(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// CreateCategory handles creating a new category
func CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	category := req.model()
	if err := service.CreateCategory(db(c), category); err != nil {
		return respondError(c, err)
	}
	logger.FromContext(c).Info("Category created",
		zap.Uint("category_id", category.ID),
		zap.String("code", category.Code))
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles updating an existing category
func UpdateCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	category, err := service.UpdateCategory(db(c), id, req.model())
	if err != nil {
		return respondError(c, err)
	}
	logger.FromContext(c).Info("Category updated", zap.Uint("category_id", id))
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory handles deleting a category. Protected codes answer 403.
func DeleteCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := service.DeleteCategory(db(c), id, business); err != nil {
		return respondError(c, err)
	}
	logger.FromContext(c).Info("Category deleted", zap.Uint("category_id", id))
	return c.NoContent(http.StatusNoContent)
}

// ListProducts handles retrieving products.
// Query: categoryId, dealerId, barcode.
func ListProducts(c echo.Context) error {
	categoryID, err := queryID(c, "categoryId")
	if err != nil {
		return respondError(c, err)
	}
	dealerID, err := queryID(c, "dealerId")
	if err != nil {
		return respondError(c, err)
	}
	products, err := service.ListProducts(db(c), service.ProductFilter{
		CategoryID: categoryID,
		DealerID:   dealerID,
		Barcode:    c.QueryParam("barcode"),
	})
	if err != nil {
		return respondError(c, err)
	}
	logger.FromContext(c).Info("Products retrieved", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles retrieving a single product by ID
func GetProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	product, err := service.GetProduct(db(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles creating a new product
func CreateProduct(c echo.Context) error {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	product := req.model()
	if err := service.CreateProduct(db(c), product); err != nil {
		return respondError(c, err)
	}
	logger.FromContext(c).Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("barcode", product.Barcode))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles updating an existing product
func UpdateProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	product, err := service.UpdateProduct(db(c), id, req.model())
	if err != nil {
		return respondError(c, err)
	}
	logger.FromContext(c).Info("Product updated", zap.Uint("product_id", id))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles deleting a product
func DeleteProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := service.DeleteProduct(db(c), id); err != nil {
		return respondError(c, err)
	}
	logger.FromContext(c).Info("Product deleted", zap.Uint("product_id", id))
	return c.NoContent(http.StatusNoContent)
}
