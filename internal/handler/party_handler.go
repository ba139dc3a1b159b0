package handler

import (
	"net/http"
	"strconv"

	"github.com/hashreftech/jewellery-billing-software-sub000/internal/apperror"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/model"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/service"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/logger"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/validation"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type DealerRequest struct {
	Name      string `json:"name"`
	Code      string `json:"code"`
	Phone     string `json:"phone"`
	GSTNumber string `json:"gstNumber"`
	Address   string `json:"address"`
}

type SchemeRequest struct {
	CustomerID     uint            `json:"customerId"`
	SchemeName     string          `json:"schemeName"`
	MonthlyAmount  decimal.Decimal `json:"monthlyAmount"`
	DurationMonths int             `json:"durationMonths"`
	StartDate      string          `json:"startDate"`
}

type EmployeeRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// ListCustomers handles retrieving customers, optionally matching ?search=
// against name or phone.
func ListCustomers(c echo.Context) error {
	customers, err := service.ListCustomers(db(c), c.QueryParam("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, customers)
}

func GetCustomer(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	customer, err := service.GetCustomer(db(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

func CreateCustomer(c echo.Context) error {
	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	customer := &model.Customer{Name: req.Name, Phone: req.Phone, Email: req.Email, Address: req.Address}
	if err := service.CreateCustomer(db(c), customer); err != nil {
		return respondError(c, err)
	}
	logger.FromContext(c).Info("Customer created", zap.Uint("customer_id", customer.ID))
	return c.JSON(http.StatusCreated, customer)
}

func ListDealers(c echo.Context) error {
	dealers, err := service.ListDealers(db(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dealers)
}

func GetDealer(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	dealer, err := service.GetDealer(db(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dealer)
}

func CreateDealer(c echo.Context) error {
	var req DealerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	dealer := &model.Dealer{
		Name:      req.Name,
		Code:      req.Code,
		Phone:     req.Phone,
		GSTNumber: req.GSTNumber,
		Address:   req.Address,
	}
	if err := service.CreateDealer(db(c), dealer); err != nil {
		return respondError(c, err)
	}
	logger.FromContext(c).Info("Dealer created", zap.Uint("dealer_id", dealer.ID), zap.String("code", dealer.Code))
	return c.JSON(http.StatusCreated, dealer)
}

// CreateScheme enrolls a customer in a savings scheme and issues a card number.
func CreateScheme(c echo.Context) error {
	var req SchemeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	v := make(validation.Violations)
	start := parseDate("startDate", req.StartDate, v)
	if !v.Empty() {
		return respondError(c, apperror.Validation("invalid scheme enrollment", v))
	}

	scheme, err := service.EnrollScheme(db(c), service.EnrollInput{
		CustomerID:     req.CustomerID,
		SchemeName:     req.SchemeName,
		MonthlyAmount:  req.MonthlyAmount,
		DurationMonths: req.DurationMonths,
		StartDate:      start,
	}, currentUserID(c), today())
	if err != nil {
		return respondError(c, err)
	}
	logger.FromContext(c).Info("Scheme enrolled",
		zap.String("card_number", scheme.CardNumber),
		zap.Uint("customer_id", scheme.CustomerID))
	return c.JSON(http.StatusCreated, scheme)
}

func ListSchemes(c echo.Context) error {
	customerID, err := queryID(c, "customerId")
	if err != nil {
		return respondError(c, err)
	}
	schemes, err := service.ListSchemes(db(c), customerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, schemes)
}

// CreateEmployee issues the next employee code. Admin only.
func CreateEmployee(c echo.Context) error {
	var req EmployeeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	employee := &model.Employee{Name: req.Name, Phone: req.Phone, Role: req.Role}
	if err := service.CreateEmployee(db(c), employee); err != nil {
		return respondError(c, err)
	}
	logger.FromContext(c).Info("Employee created", zap.String("employee_code", employee.EmployeeCode))
	return c.JSON(http.StatusCreated, employee)
}

// ListEmployees lists employees; ?active=true hides inactive ones.
func ListEmployees(c echo.Context) error {
	activeOnly, _ := strconv.ParseBool(c.QueryParam("active"))
	employees, err := service.ListEmployees(db(c), activeOnly)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, employees)
}
