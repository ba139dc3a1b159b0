package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/hashreftech/jewellery-billing-software-sub000/internal/apperror"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/service"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/logger"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/validation"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PriceRequest defines the body of POST /api/price-master.
type PriceRequest struct {
	CategoryID    uint            `json:"categoryId"`
	PricePerGram  decimal.Decimal `json:"pricePerGram"`
	EffectiveDate string          `json:"effectiveDate"`
}

// QuoteRequest defines the body of POST /api/price-master/quote.
type QuoteRequest struct {
	ProductID  uint             `json:"productId"`
	Quantity   int              `json:"quantity"`
	Date       string           `json:"date"`
	StoneValue *decimal.Decimal `json:"stoneValue"`
}

// priceDate resolves the date query parameter, defaulting to today.
func priceDate(raw string, v validation.Violations) time.Time {
	if d := parseDate("date", raw, v); d != nil {
		return *d
	}
	return today()
}

// GetLatestPrice returns the price in effect for a category on a date.
func GetLatestPrice(c echo.Context) error {
	log := logger.FromContext(c)

	v := make(validation.Violations)
	categoryID, err := queryID(c, "categoryId")
	if err != nil {
		return respondError(c, err)
	}
	validation.RequiredID("categoryId", categoryID, v)
	date := priceDate(c.QueryParam("date"), v)
	if !v.Empty() {
		return respondError(c, apperror.Validation("invalid price lookup", v))
	}

	price, err := service.ResolvePrice(db(c), categoryID, date)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Price resolved",
		zap.Uint("category_id", categoryID),
		zap.String("date", date.Format(dateLayout)),
		zap.String("effective_date", price.EffectiveDate.Format(dateLayout)))
	return c.JSON(http.StatusOK, price)
}

// UpsertPrice sets the price of a category for one effective date.
func UpsertPrice(c echo.Context) error {
	var req PriceRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	v := make(validation.Violations)
	date := priceDate(req.EffectiveDate, v)
	if !v.Empty() {
		return respondError(c, apperror.Validation("invalid price", v))
	}

	price, err := service.UpsertPrice(db(c), req.CategoryID, req.PricePerGram, date)
	if err != nil {
		return respondError(c, err)
	}

	logger.FromContext(c).Info("Price stored",
		zap.Uint("category_id", price.CategoryID),
		zap.String("price_per_gram", price.PricePerGram.String()),
		zap.String("effective_date", price.EffectiveDate.Format(dateLayout)))
	return c.JSON(http.StatusOK, price)
}

// ListPrices returns the price history of a category, newest first.
func ListPrices(c echo.Context) error {
	categoryID, err := queryID(c, "categoryId")
	if err != nil {
		return respondError(c, err)
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	prices, err := service.ListPrices(db(c), categoryID, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, prices)
}

// QuotePrice prices one product without creating an order.
func QuotePrice(c echo.Context) error {
	var req QuoteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	v := make(validation.Violations)
	date := priceDate(req.Date, v)
	if !v.Empty() {
		return respondError(c, apperror.Validation("invalid quote request", v))
	}

	b, err := service.Quote(db(c), service.QuoteInput{
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		Date:       date,
		StoneValue: req.StoneValue,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
