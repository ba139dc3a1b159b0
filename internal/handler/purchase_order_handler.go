package handler

import (
	"net/http"

	"github.com/hashreftech/jewellery-billing-software-sub000/internal/apperror"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/audit"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/model"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/pricing"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/service"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/logger"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/validation"
	"github.com/hashreftech/jewellery-billing-software-sub000/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderItemRequest is a product selection on a new order.
type OrderItemRequest struct {
	ProductID  uint             `json:"productId"`
	Quantity   int              `json:"quantity"`
	StoneValue *decimal.Decimal `json:"stoneValue"`
}

// CreateOrderRequest defines the body of POST /api/purchase-orders.
type CreateOrderRequest struct {
	CustomerID   uint                 `json:"customerId"`
	OrderDate    string               `json:"orderDate"`
	Status       *model.OrderStatus   `json:"status"`
	Discount     decimal.Decimal      `json:"discount"`
	DiscountType pricing.DiscountType `json:"discountType"`
	Notes        string               `json:"notes"`
	Items        []OrderItemRequest   `json:"items"`
}

// UpdateItemRequest is one line of an order update.
type UpdateItemRequest struct {
	ID              *uint            `json:"id"`
	ProductID       *uint            `json:"productId"`
	Quantity        *int             `json:"quantity"`
	NetWeight       *decimal.Decimal `json:"netWeight"`
	GoldRatePerGram *decimal.Decimal `json:"goldRatePerGram"`
	BasePrice       *decimal.Decimal `json:"basePrice"`
	GSTAmount       *decimal.Decimal `json:"gstAmount"`
	TotalPrice      *decimal.Decimal `json:"totalPrice"`
	StoneValue      *decimal.Decimal `json:"stoneValue"`
}

// UpdateOrderRequest defines the body of PUT /api/purchase-orders/:id.
// Absent fields are left unchanged.
type UpdateOrderRequest struct {
	CustomerID   *uint                 `json:"customerId"`
	OrderDate    *string               `json:"orderDate"`
	Status       *model.OrderStatus    `json:"status"`
	Discount     *decimal.Decimal      `json:"discount"`
	DiscountType *pricing.DiscountType `json:"discountType"`
	Notes        *string               `json:"notes"`
	Items        []UpdateItemRequest   `json:"items"`
}

func (r *CreateOrderRequest) input() (service.CreateOrderInput, error) {
	v := make(validation.Violations)
	in := service.CreateOrderInput{
		CustomerID:   r.CustomerID,
		OrderDate:    parseDate("orderDate", r.OrderDate, v),
		Status:       r.Status,
		Discount:     r.Discount,
		DiscountType: r.DiscountType,
		Notes:        r.Notes,
	}
	if !v.Empty() {
		return in, apperror.Validation("invalid purchase order", v)
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, service.NewOrderItem{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			StoneValue: it.StoneValue,
		})
	}
	return in, nil
}

func (r *UpdateOrderRequest) patch() (audit.OrderPatch, error) {
	p := audit.OrderPatch{
		CustomerID:   r.CustomerID,
		Status:       r.Status,
		Discount:     r.Discount,
		DiscountType: r.DiscountType,
		Notes:        r.Notes,
	}
	if r.OrderDate != nil {
		v := make(validation.Violations)
		p.OrderDate = parseDate("orderDate", *r.OrderDate, v)
		if p.OrderDate == nil && v.Empty() {
			v["orderDate"] = "required"
		}
		if !v.Empty() {
			return p, apperror.Validation("invalid purchase order update", v)
		}
	}
	if r.Items != nil {
		p.Items = make([]audit.ItemPatch, 0, len(r.Items))
		for _, it := range r.Items {
			p.Items = append(p.Items, audit.ItemPatch(it))
		}
	}
	return p, nil
}

// CreatePurchaseOrder prices and stores a new order.
func CreatePurchaseOrder(c echo.Context) error {
	log := logger.FromContext(c)

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	in, err := req.input()
	if err != nil {
		prometheus.RecordOrderOperation("create", err)
		return respondError(c, err)
	}

	order, err := service.CreatePurchaseOrder(db(c), in, currentUserID(c), today())
	prometheus.RecordOrderOperation("create", err)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Purchase order created",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Int("items", len(order.Items)),
		zap.String("total_amount", order.TotalAmount.String()))
	return c.JSON(http.StatusCreated, order)
}

// UpdatePurchaseOrder applies a partial update and records what changed.
func UpdatePurchaseOrder(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	patch, err := req.patch()
	if err != nil {
		prometheus.RecordOrderOperation("update", err)
		return respondError(c, err)
	}

	order, rec, err := service.UpdatePurchaseOrder(db(c), id, patch, currentUserID(c))
	prometheus.RecordOrderOperation("update", err)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Purchase order updated",
		zap.Uint("order_id", order.ID),
		zap.Strings("changed_fields", rec.ChangedFields),
		zap.Int("items_added", len(rec.ItemChanges.Added)),
		zap.Int("items_updated", len(rec.ItemChanges.Updated)),
		zap.Int("items_removed", len(rec.ItemChanges.Removed)))
	return c.JSON(http.StatusOK, order)
}

// GetPurchaseOrder returns an order with its lines.
func GetPurchaseOrder(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	order, err := service.GetPurchaseOrder(db(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ListPurchaseOrders returns a page of orders.
// Query: customerId, status, from, to, page, limit.
func ListPurchaseOrders(c echo.Context) error {
	log := logger.FromContext(c)

	v := make(validation.Violations)
	customerID, err := queryID(c, "customerId")
	if err != nil {
		return respondError(c, err)
	}
	f := service.OrderFilter{
		CustomerID: customerID,
		From:       parseDate("from", c.QueryParam("from"), v),
		To:         parseDate("to", c.QueryParam("to"), v),
	}
	if s := c.QueryParam("status"); s != "" {
		f.Status = model.OrderStatus(s)
		if !f.Status.Valid() {
			v["status"] = "invalid_choice"
		}
	}
	if !v.Empty() {
		return respondError(c, apperror.Validation("invalid filter", v))
	}

	page, limit := pagination(c)
	f.Limit = limit
	f.Offset = (page - 1) * limit

	orders, total, err := service.ListPurchaseOrders(db(c), f)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Purchase orders retrieved", zap.Int("count", len(orders)), zap.Int64("total", total))
	return c.JSON(http.StatusOK, echo.Map{
		"data":  orders,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetPurchaseOrderAudit returns the audit history of an order.
func GetPurchaseOrderAudit(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	entries, err := service.ListAudit(db(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// GetPurchaseOrderInvoice returns invoice data built from the stored lines.
func GetPurchaseOrderInvoice(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	inv, err := service.BuildInvoice(db(c), id)
	if err != nil {
		return respondError(c, err)
	}
	logger.FromContext(c).Info("Invoice built",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Int("lines", len(inv.Lines)))
	return c.JSON(http.StatusOK, inv)
}
