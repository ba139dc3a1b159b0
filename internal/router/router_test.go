package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hashreftech/jewellery-billing-software-sub000/internal/model"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/pricing"
	"github.com/hashreftech/jewellery-billing-software-sub000/internal/service"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/config"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/database/dbtest"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type testServer struct {
	t        *testing.T
	e        *echo.Echo
	category *model.ProductCategory
	ring     *model.Product
	customer *model.Customer
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		ServiceName: "billing-service",
		JWT:         config.JWTConfig{SigningKey: "router-test-key", ExpirationHours: 1},
		Business:    config.BusinessConfig{ProtectedCategoryCodes: []string{"GOLD22"}},
	}
	jwtutil.Initialize(&cfg.JWT)
	db := dbtest.New(t)

	s := &testServer{t: t, e: New(cfg)}
	s.category = &model.ProductCategory{Name: "Gold 22K", Code: "GOLD22", TaxPercentage: dec("3"), HSNCode: "7113"}
	if err := service.CreateCategory(db, s.category); err != nil {
		t.Fatal(err)
	}
	s.ring = &model.Product{
		Name:               "Ring",
		Barcode:            "RING-001",
		Purity:             "22K",
		NetWeight:          decimal.NewNullDecimal(dec("15.5")),
		GrossWeight:        dec("15.5"),
		CategoryID:         s.category.ID,
		MakingChargeType:   pricing.ChargePerGram,
		MakingChargeValue:  dec("200"),
		WastageChargeType:  pricing.ChargePercentage,
		WastageChargeValue: dec("8"),
	}
	if err := service.CreateProduct(db, s.ring); err != nil {
		t.Fatal(err)
	}
	s.customer = &model.Customer{Name: "Meena", Phone: "9000000001"}
	if err := service.CreateCustomer(db, s.customer); err != nil {
		t.Fatal(err)
	}
	if _, err := service.UpsertPrice(db, s.category.ID, dec("6500"), time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	return s
}

func (s *testServer) token(role string) string {
	s.t.Helper()
	tok, err := jwtutil.GenerateToken(7, role+"@shop.test", role)
	if err != nil {
		s.t.Fatal(err)
	}
	return tok
}

// do sends a request as role ("" for anonymous) and decodes a JSON reply into out.
func (s *testServer) do(method, path, role string, body any, out any) int {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if role != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token(role))
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			s.t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

func (s *testServer) orderBody(qty int) map[string]any {
	return map[string]any{
		"customerId": s.customer.ID,
		"orderDate":  "2024-01-05",
		"items":      []map[string]any{{"productId": s.ring.ID, "quantity": qty}},
	}
}

func TestPublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	var health map[string]string
	if code := s.do(http.MethodGet, "/health", "", nil, &health); code != http.StatusOK {
		t.Fatalf("/health = %d", code)
	}
	if health["database"] != "up" {
		t.Errorf("database = %q, want up", health["database"])
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("/metrics = %d", rec.Code)
	}
}

func TestAPIRequiresToken(t *testing.T) {
	s := newTestServer(t)
	if code := s.do(http.MethodGet, "/api/categories", "", nil, nil); code != http.StatusUnauthorized {
		t.Errorf("anonymous = %d, want 401", code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token = %d, want 401", rec.Code)
	}
}

func TestCreatePurchaseOrderRoles(t *testing.T) {
	s := newTestServer(t)

	if code := s.do(http.MethodPost, "/api/purchase-orders", jwtutil.RoleStaff, s.orderBody(1), nil); code != http.StatusForbidden {
		t.Errorf("staff create = %d, want 403", code)
	}

	var order model.PurchaseOrder
	if code := s.do(http.MethodPost, "/api/purchase-orders", jwtutil.RoleManager, s.orderBody(1), &order); code != http.StatusCreated {
		t.Fatalf("manager create = %d, want 201", code)
	}
	if len(order.Items) != 1 || order.CreatedBy != 7 {
		t.Errorf("order = %+v", order)
	}
	if !order.TotalAmount.Equal(dec("115267.30")) {
		t.Errorf("totalAmount = %s, want 115267.30", order.TotalAmount)
	}
}

func TestCreatePurchaseOrderValidation(t *testing.T) {
	s := newTestServer(t)

	body := s.orderBody(1)
	body["items"] = []map[string]any{}
	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if code := s.do(http.MethodPost, "/api/purchase-orders", jwtutil.RoleAdmin, body, &resp); code != http.StatusBadRequest {
		t.Fatalf("empty items = %d, want 400", code)
	}
	if resp.Details["items"] != "required" {
		t.Errorf("details = %v", resp.Details)
	}

	body = s.orderBody(1)
	delete(body, "customerId")
	resp.Details = nil
	if code := s.do(http.MethodPost, "/api/purchase-orders", jwtutil.RoleAdmin, body, &resp); code != http.StatusBadRequest {
		t.Fatalf("missing customer = %d, want 400", code)
	}
	if resp.Details["customerId"] != "required" {
		t.Errorf("details = %v", resp.Details)
	}

	body = s.orderBody(1)
	body["orderDate"] = "05/01/2024"
	if code := s.do(http.MethodPost, "/api/purchase-orders", jwtutil.RoleAdmin, body, nil); code != http.StatusBadRequest {
		t.Errorf("bad date = %d, want 400", code)
	}
}

func TestUpdatePurchaseOrderAndAudit(t *testing.T) {
	s := newTestServer(t)

	var order model.PurchaseOrder
	if code := s.do(http.MethodPost, "/api/purchase-orders", jwtutil.RoleAdmin, s.orderBody(1), &order); code != http.StatusCreated {
		t.Fatalf("create = %d", code)
	}

	update := map[string]any{
		"items": []map[string]any{{"id": order.Items[0].ID, "quantity": 2}},
	}
	var updated model.PurchaseOrder
	path := fmt.Sprintf("/api/purchase-orders/%d", order.ID)
	if code := s.do(http.MethodPut, path, jwtutil.RoleManager, update, &updated); code != http.StatusOK {
		t.Fatalf("update = %d", code)
	}
	if updated.Items[0].Quantity != 2 || !updated.TotalAmount.Equal(dec("230534.60")) {
		t.Errorf("updated = qty %d total %s", updated.Items[0].Quantity, updated.TotalAmount)
	}

	var entries []struct {
		UpdatedBy uint           `json:"updatedBy"`
		Changes   map[string]any `json:"changes"`
	}
	if code := s.do(http.MethodGet, path+"/audit", jwtutil.RoleStaff, nil, &entries); code != http.StatusOK {
		t.Fatalf("audit = %d", code)
	}
	if len(entries) != 2 {
		t.Fatalf("audit entries = %d, want 2", len(entries))
	}
	if entries[0].Changes["action"] != "updated" || entries[1].Changes["action"] != "created" {
		t.Errorf("actions = %v, %v", entries[0].Changes["action"], entries[1].Changes["action"])
	}
	if entries[0].UpdatedBy != 7 {
		t.Errorf("updatedBy = %d, want 7", entries[0].UpdatedBy)
	}

	if code := s.do(http.MethodPut, "/api/purchase-orders/9999", jwtutil.RoleAdmin, update, nil); code != http.StatusNotFound {
		t.Errorf("update missing = %d, want 404", code)
	}
	if code := s.do(http.MethodGet, "/api/purchase-orders/9999/audit", jwtutil.RoleAdmin, nil, nil); code != http.StatusNotFound {
		t.Errorf("audit missing = %d, want 404", code)
	}
}

func TestListAndInvoice(t *testing.T) {
	s := newTestServer(t)

	var order model.PurchaseOrder
	if code := s.do(http.MethodPost, "/api/purchase-orders", jwtutil.RoleAdmin, s.orderBody(1), &order); code != http.StatusCreated {
		t.Fatalf("create = %d", code)
	}

	var page struct {
		Data  []model.PurchaseOrder `json:"data"`
		Total int64                 `json:"total"`
	}
	if code := s.do(http.MethodGet, "/api/purchase-orders?status=pending", jwtutil.RoleStaff, nil, &page); code != http.StatusOK {
		t.Fatalf("list = %d", code)
	}
	if page.Total != 1 || len(page.Data) != 1 {
		t.Errorf("page = %+v", page)
	}
	if code := s.do(http.MethodGet, "/api/purchase-orders?status=lost", jwtutil.RoleStaff, nil, nil); code != http.StatusBadRequest {
		t.Errorf("bad status filter = %d, want 400", code)
	}

	var inv service.Invoice
	if code := s.do(http.MethodGet, fmt.Sprintf("/api/purchase-orders/%d/invoice", order.ID), jwtutil.RoleStaff, nil, &inv); code != http.StatusOK {
		t.Fatalf("invoice = %d", code)
	}
	if inv.InvoiceNumber != order.OrderNumber || len(inv.Lines) != 1 || inv.Lines[0].HSNCode != "7113" {
		t.Errorf("invoice = %+v", inv)
	}
}

func TestLatestPrice(t *testing.T) {
	s := newTestServer(t)

	path := fmt.Sprintf("/api/price-master/latest?categoryId=%d&date=2024-01-03", s.category.ID)
	if code := s.do(http.MethodGet, path, jwtutil.RoleStaff, nil, nil); code != http.StatusNotFound {
		t.Errorf("before first price = %d, want 404", code)
	}

	var price model.PriceMaster
	path = fmt.Sprintf("/api/price-master/latest?categoryId=%d&date=2024-01-10", s.category.ID)
	if code := s.do(http.MethodGet, path, jwtutil.RoleStaff, nil, &price); code != http.StatusOK {
		t.Fatalf("after first price = %d, want 200", code)
	}
	if !price.PricePerGram.Equal(dec("6500")) {
		t.Errorf("pricePerGram = %s, want 6500", price.PricePerGram)
	}

	if code := s.do(http.MethodGet, "/api/price-master/latest", jwtutil.RoleStaff, nil, nil); code != http.StatusBadRequest {
		t.Errorf("missing categoryId = %d, want 400", code)
	}
}

func TestPriceUpsertAndQuote(t *testing.T) {
	s := newTestServer(t)

	body := map[string]any{"categoryId": s.category.ID, "pricePerGram": "6600", "effectiveDate": "2024-01-06"}
	if code := s.do(http.MethodPost, "/api/price-master", jwtutil.RoleStaff, body, nil); code != http.StatusForbidden {
		t.Errorf("staff upsert = %d, want 403", code)
	}
	if code := s.do(http.MethodPost, "/api/price-master", jwtutil.RoleAdmin, body, nil); code != http.StatusOK {
		t.Fatalf("admin upsert = %d, want 200", code)
	}

	var quote pricing.ItemPriceBreakdown
	q := map[string]any{"productId": s.ring.ID, "quantity": 1, "date": "2024-01-05"}
	if code := s.do(http.MethodPost, "/api/price-master/quote", jwtutil.RoleStaff, q, &quote); code != http.StatusOK {
		t.Fatalf("quote = %d", code)
	}
	if !quote.PricePerGram.Equal(dec("6500")) || !quote.FinalPrice.Equal(dec("115267.30")) {
		t.Errorf("quote = %s / %s", quote.PricePerGram, quote.FinalPrice)
	}
}

func TestProtectedCategoryDelete(t *testing.T) {
	s := newTestServer(t)

	var resp map[string]any
	path := fmt.Sprintf("/api/categories/%d", s.category.ID)
	if code := s.do(http.MethodDelete, path, jwtutil.RoleAdmin, nil, &resp); code != http.StatusForbidden {
		t.Fatalf("delete protected = %d, want 403", code)
	}
	if resp["error"] == "" {
		t.Errorf("expected an error message")
	}

	var silver model.ProductCategory
	body := map[string]any{"name": "Silver", "code": "SILVER", "taxPercentage": "3"}
	if code := s.do(http.MethodPost, "/api/categories", jwtutil.RoleAdmin, body, &silver); code != http.StatusCreated {
		t.Fatalf("create category = %d", code)
	}
	if code := s.do(http.MethodPost, "/api/categories", jwtutil.RoleAdmin, body, nil); code != http.StatusConflict {
		t.Errorf("duplicate code = %d, want 409", code)
	}
	if code := s.do(http.MethodDelete, fmt.Sprintf("/api/categories/%d", silver.ID), jwtutil.RoleAdmin, nil, nil); code != http.StatusNoContent {
		t.Errorf("delete unprotected = %d, want 204", code)
	}
}

func TestEmployeesAdminOnly(t *testing.T) {
	s := newTestServer(t)

	body := map[string]any{"name": "Ravi"}
	if code := s.do(http.MethodPost, "/api/employees", jwtutil.RoleManager, body, nil); code != http.StatusForbidden {
		t.Errorf("manager create = %d, want 403", code)
	}
	var emp model.Employee
	if code := s.do(http.MethodPost, "/api/employees", jwtutil.RoleAdmin, body, &emp); code != http.StatusCreated {
		t.Fatalf("admin create = %d", code)
	}
	if emp.EmployeeCode != "EMP-001" || emp.Role != "staff" {
		t.Errorf("employee = %+v", emp)
	}
}
