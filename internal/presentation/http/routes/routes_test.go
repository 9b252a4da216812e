package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eazyque/eazyque-api/internal/application/service"
	"github.com/eazyque/eazyque-api/internal/config"
	"github.com/eazyque/eazyque-api/internal/infrastructure/events"
	"github.com/eazyque/eazyque-api/internal/infrastructure/memory"
	"github.com/eazyque/eazyque-api/internal/presentation/http/handler"
	"github.com/eazyque/eazyque-api/pkg/printer"
	"github.com/eazyque/eazyque-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
	Details map[string]any  `json:"details"`
}

type api struct {
	t      *testing.T
	router *gin.Engine
	store  *memory.Store
}

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Name: "eazyque-api", Env: "test", RequestTimeout: 5 * time.Second},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 1},
	}
}

func newAPI(t *testing.T, cfg *config.Config) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	jwtManager := utils.NewJWTManager("test-secret", 15*time.Minute, 24*time.Hour)
	orderCfg := service.DefaultOrderConfig()

	orderService := service.NewOrderService(store, store.Orders(), events.NoopPublisher{}, orderCfg)
	receiptService := service.NewReceiptService(orderService, printer.Null{}, printer.Width58mm)

	handlers := &Handlers{
		Auth:      handler.NewAuthHandler(service.NewAuthService(store.Users(), store.Shops(), jwtManager)),
		Product:   handler.NewProductHandler(service.NewProductService(store.Products(), store.Shops())),
		Inventory: handler.NewInventoryHandler(service.NewInventoryService(store, store.Inventory(), nil, orderCfg)),
		Order:     handler.NewOrderHandler(orderService),
		Customer:  handler.NewCustomerHandler(service.NewCustomerService(store.Customers())),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(store.Analytics())),
		Tax:       handler.NewTaxHandler(service.NewTaxService()),
		User:      handler.NewUserHandler(service.NewUserService(store.Users())),
		Printer:   handler.NewPrinterHandler(receiptService),
	}

	limiter := NewRateLimiter(cfg.RateLimit)
	t.Cleanup(limiter.Stop)

	router := Setup(handlers, &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: store.Idempotency(),
		RateLimiter:     limiter,
	})
	return &api{t: t, router: router, store: store}
}

func (a *api) do(method, path, token string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func (a *api) register(email string) string {
	a.t.Helper()
	rec, env := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"shop_name": "Sharma General Store",
		"state":     "Maharashtra",
		"gstin":     "27ABCDE1234F1Z5",
		"name":      "Ravi Sharma",
		"email":     email,
		"password":  "secret-pass",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(a.t, data.AccessToken)
	return data.AccessToken
}

// stockedProduct creates a ₹100 product at 18% GST with the given stock
func (a *api) stockedProduct(token string, stock int) string {
	a.t.Helper()
	rec, env := a.do(http.MethodPost, "/api/v1/products", token, map[string]any{
		"name":          "Basmati Rice 1kg",
		"hsn_code":      "1006",
		"base_price":    100,
		"selling_price": 100,
		"gst_rate":      18,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var product struct {
		ID string `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &product))

	if stock > 0 {
		rec, _ = a.do(http.MethodPost, "/api/v1/inventory/adjust", token, map[string]any{
			"product_id": product.ID,
			"quantity":   stock,
		})
		require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	}
	return product.ID
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

type orderBody struct {
	ID          string  `json:"id"`
	OrderNumber string  `json:"order_number"`
	Status      string  `json:"status"`
	Subtotal    float64 `json:"subtotal"`
	TaxAmount   float64 `json:"tax_amount"`
	TotalAmount float64 `json:"total_amount"`
	SupplyType  string  `json:"supply_type"`
	TaxLines    []struct {
		Kind   string  `json:"kind"`
		Amount float64 `json:"amount"`
	} `json:"tax_lines"`
}

func TestHealth(t *testing.T) {
	a := newAPI(t, testConfig())
	rec, _ := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRegisterLoginAndMe(t *testing.T) {
	a := newAPI(t, testConfig())
	a.register("ravi@example.com")

	rec, env := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "RAVI@example.com", "password": "secret-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decodeData[struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
	}](t, env)
	assert.Equal(t, "Bearer", login.TokenType)

	rec, env = a.do(http.MethodGet, "/api/v1/auth/me", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeData[struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}](t, env)
	assert.Equal(t, "ravi@example.com", me.Email)
	assert.Equal(t, "owner", me.Role)

	rec, env = a.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, env = a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "ravi@example.com", "password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Kind)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	a := newAPI(t, testConfig())

	rec, _ := a.do(http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = a.do(http.MethodGet, "/api/v1/products", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	a := newAPI(t, testConfig())
	token := a.register("ravi@example.com")
	productID := a.stockedProduct(token, 10)

	rec, env := a.do(http.MethodPost, "/api/v1/orders", token, map[string]any{
		"customer_name":  "Walk-in",
		"payment_method": "cash",
		"items":          []map[string]any{{"product_id": productID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decodeData[orderBody](t, env)
	assert.Equal(t, "PENDING", order.Status)
	assert.InDelta(t, 200.0, order.Subtotal, 0.001)
	assert.InDelta(t, 36.0, order.TaxAmount, 0.001)
	assert.InDelta(t, 236.0, order.TotalAmount, 0.001)
	assert.Equal(t, "INTRASTATE", order.SupplyType)
	require.Len(t, order.TaxLines, 2)
	assert.Regexp(t, `^ORD-\d{8}-\d{6}-[0-9A-F]{6}$`, order.OrderNumber)

	rec, env = a.do(http.MethodGet, "/api/v1/inventory?product_id="+productID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeData[struct {
		Items []struct {
			Quantity int `json:"quantity"`
		} `json:"items"`
	}](t, env)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 8, page.Items[0].Quantity)

	rec, env = a.do(http.MethodGet, "/api/v1/orders/"+order.ID+"/invoice", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, env.Success)

	rec, env = a.do(http.MethodPost, "/api/v1/orders/"+order.ID+"/cancel", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "CANCELLED", decodeData[orderBody](t, env).Status)

	rec, env = a.do(http.MethodPost, "/api/v1/orders/"+order.ID+"/cancel", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_CANCELLED", env.Kind)

	rec, env = a.do(http.MethodGet, "/api/v1/inventory/audit?reference_id="+order.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	audits := decodeData[struct {
		Items []struct {
			Reason string `json:"reason"`
		} `json:"items"`
	}](t, env)
	assert.Len(t, audits.Items, 2)
}

func TestInsufficientStockOverHTTP(t *testing.T) {
	a := newAPI(t, testConfig())
	token := a.register("ravi@example.com")
	productID := a.stockedProduct(token, 3)

	rec, env := a.do(http.MethodPost, "/api/v1/orders", token, map[string]any{
		"customer_name":  "Walk-in",
		"payment_method": "UPI",
		"items":          []map[string]any{{"product_id": productID, "quantity": 5}},
	})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Kind)
	assert.EqualValues(t, 3, env.Details["available"])
	assert.EqualValues(t, 5, env.Details["requested"])
}

func TestOrderValidationOverHTTP(t *testing.T) {
	a := newAPI(t, testConfig())
	token := a.register("ravi@example.com")

	rec, env := a.do(http.MethodPost, "/api/v1/orders", token, map[string]any{
		"customer_name":  "Walk-in",
		"payment_method": "CASH",
		"items":          []map[string]any{},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Equal(t, "VALIDATION_ERROR", env.Kind)

	rec, _ = a.do(http.MethodPost, "/api/v1/orders", token, map[string]any{
		"customer_name":  "Walk-in",
		"payment_method": "CHEQUE",
		"items":          []map[string]any{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = a.do(http.MethodGet, "/api/v1/orders/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = a.do(http.MethodGet, "/api/v1/orders?status=LOST", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestIdempotentOrderCreate(t *testing.T) {
	a := newAPI(t, testConfig())
	token := a.register("ravi@example.com")
	productID := a.stockedProduct(token, 10)

	body := map[string]any{
		"customer_name":  "Walk-in",
		"payment_method": "CASH",
		"items":          []map[string]any{{"product_id": productID, "quantity": 1}},
	}
	rec1, env1 := a.do(http.MethodPost, "/api/v1/orders", token, body, "Idempotency-Key", "till-1-0001")
	require.Equal(t, http.StatusCreated, rec1.Code, rec1.Body.String())

	rec2, env2 := a.do(http.MethodPost, "/api/v1/orders", token, body, "Idempotency-Key", "till-1-0001")
	require.Equal(t, http.StatusCreated, rec2.Code)
	assert.Equal(t, "true", rec2.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, decodeData[orderBody](t, env1).ID, decodeData[orderBody](t, env2).ID)

	body["items"] = []map[string]any{{"product_id": productID, "quantity": 2}}
	rec3, _ := a.do(http.MethodPost, "/api/v1/orders", token, body, "Idempotency-Key", "till-1-0001")
	assert.Equal(t, http.StatusUnprocessableEntity, rec3.Code)

	_, env := a.do(http.MethodGet, "/api/v1/orders", token, nil)
	orders := decodeData[struct {
		Items []orderBody `json:"items"`
	}](t, env)
	assert.Len(t, orders.Items, 1)
}

func TestCashierPermissions(t *testing.T) {
	a := newAPI(t, testConfig())
	owner := a.register("ravi@example.com")
	productID := a.stockedProduct(owner, 5)

	rec, _ := a.do(http.MethodPost, "/api/v1/staff", owner, map[string]any{
		"name": "Kiran", "email": "kiran@example.com", "password": "cashier-pass", "role": "cashier",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "kiran@example.com", "password": "cashier-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	cashier := decodeData[struct {
		AccessToken string `json:"access_token"`
	}](t, env).AccessToken

	rec, env = a.do(http.MethodPost, "/api/v1/orders", cashier, map[string]any{
		"customer_name":  "Walk-in",
		"payment_method": "CASH",
		"items":          []map[string]any{{"product_id": productID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	orderID := decodeData[orderBody](t, env).ID

	rec, _ = a.do(http.MethodPost, "/api/v1/orders/"+orderID+"/cancel", cashier, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = a.do(http.MethodPatch, "/api/v1/orders/"+orderID+"/status", cashier, map[string]any{"status": "cancelled"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = a.do(http.MethodPatch, "/api/v1/orders/"+orderID+"/status", cashier, map[string]any{"status": "COMPLETED"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, path := range []string{"/api/v1/dashboard", "/api/v1/inventory", "/api/v1/staff"} {
		rec, _ = a.do(http.MethodGet, path, cashier, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}

	rec, _ = a.do(http.MethodPost, "/api/v1/orders/"+orderID+"/cancel", owner, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestShopsAreIsolated(t *testing.T) {
	a := newAPI(t, testConfig())
	first := a.register("ravi@example.com")
	second := a.register("meera@example.com")
	productID := a.stockedProduct(first, 5)

	rec, env := a.do(http.MethodGet, "/api/v1/products/"+productID, second, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Kind)

	rec, env = a.do(http.MethodPost, "/api/v1/orders", second, map[string]any{
		"customer_name":  "Walk-in",
		"payment_method": "CASH",
		"items":          []map[string]any{{"product_id": productID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", env.Kind)
}

func TestGSTCalculateAndQuote(t *testing.T) {
	a := newAPI(t, testConfig())
	token := a.register("ravi@example.com")
	productID := a.stockedProduct(token, 1)

	rec, env := a.do(http.MethodPost, "/api/v1/gst/calculate", token, map[string]any{
		"amount":       "100",
		"gst_rate":     18,
		"source_state": "Maharashtra",
		"target_state": "Karnataka",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	calc := decodeData[struct {
		SupplyType string  `json:"supply_type"`
		TotalTax   float64 `json:"total_tax"`
		Total      float64 `json:"total"`
	}](t, env)
	assert.Equal(t, "INTERSTATE", calc.SupplyType)
	assert.InDelta(t, 18.0, calc.TotalTax, 0.001)
	assert.InDelta(t, 118.0, calc.Total, 0.001)

	rec, env = a.do(http.MethodGet, "/api/v1/products/"+productID+"/quote", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	quote := decodeData[struct {
		SupplyType     string  `json:"supply_type"`
		InclusivePrice float64 `json:"inclusive_price"`
	}](t, env)
	assert.Equal(t, "INTRASTATE", quote.SupplyType)
	assert.InDelta(t, 118.0, quote.InclusivePrice, 0.001)

	rec, env = a.do(http.MethodPost, "/api/v1/gst/calculate", token, map[string]any{
		"amount": 100, "gst_rate": 7, "source_state": "Maharashtra", "target_state": "Maharashtra",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Kind)
}

func TestPrinterEndpoints(t *testing.T) {
	a := newAPI(t, testConfig())
	token := a.register("ravi@example.com")
	productID := a.stockedProduct(token, 2)

	rec, env := a.do(http.MethodGet, "/api/v1/printer/status", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decodeData[service.PrinterStatus](t, env)
	assert.False(t, status.Configured)
	assert.Equal(t, printer.KindNone, status.Type)

	_, env = a.do(http.MethodPost, "/api/v1/orders", token, map[string]any{
		"customer_name":  "Walk-in",
		"payment_method": "CARD",
		"items":          []map[string]any{{"product_id": productID, "quantity": 1}},
	})
	orderID := decodeData[orderBody](t, env).ID

	rec, _ = a.do(http.MethodPost, "/api/v1/orders/"+orderID+"/print", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRateLimitPerClient(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Requests: 2, Duration: 60}
	a := newAPI(t, cfg)

	login := map[string]any{"email": "nobody@example.com", "password": "whatever-pass"}
	for i := 0; i < 2; i++ {
		rec, _ := a.do(http.MethodPost, "/api/v1/auth/login", "", login)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec, _ := a.do(http.MethodPost, "/api/v1/auth/login", "", login)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}
