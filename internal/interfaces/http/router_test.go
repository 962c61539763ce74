package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/analytics"
	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/application/serviceorder"
	"github.com/jhoicas/taller-api/internal/application/usecase"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/taller-api/internal/interfaces/http"
	"github.com/jhoicas/taller-api/pkg/clock"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// newAPI arma la API completa sobre el almacenamiento en memoria.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	clk := clock.NewFakeClock(time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC))
	log := logger.Nop()
	ledger := inventory.NewStockLedgerUseCase(store, store.Products(), store.Movements(), clk, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:      usecase.NewProductUseCase(store, store.Products(), ledger, clk),
		StockLedger:    ledger,
		StockAlerts:    inventory.NewStockAlertUseCase(store.Products()),
		ServiceOrderUC: serviceorder.NewServiceOrderUseCase(store, store.ServiceOrders(), ledger, clk, log),
		DashboardUC:    analytics.NewDashboardUseCase(store.ServiceOrders(), store.Products(), clk),
		JWTSecret:      testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, role, method, path string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createProduct(t *testing.T, app *fiber.App, code string, stock int64, price string) dto.ProductResponse {
	t.Helper()
	var p dto.ProductResponse
	status := call(t, app, apphttp.RoleAdmin, http.MethodPost, "/api/products", map[string]any{
		"code": code, "name": "Producto " + code, "category": "Repuestos",
		"purchase_price": "10", "sale_price": price, "initial_stock": stock,
	}, &p)
	require.Equal(t, http.StatusCreated, status)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de punta a punta
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_OrdenCompletadaDescuentaInventario(t *testing.T) {
	app := newAPI(t)
	oil := createProduct(t, app, "OIL", 10, "40")

	var order dto.ServiceOrderResponse
	status := call(t, app, apphttp.RoleReception, http.MethodPost, "/api/service-orders", map[string]any{
		"vehicle_id": "ABC123",
		"items": []map[string]any{
			{"item_type": "PRODUCT", "product_id": oil.ID, "quantity": 4},
			{"item_type": "SERVICE", "description": "Cambio de aceite", "unit_price": "30"},
		},
	}, &order)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "OS-00001", order.OrderNumber)
	assert.Equal(t, "190", order.Total.String())
	require.Len(t, order.Items, 2)
	assert.Equal(t, "160", order.Items[0].Subtotal.String())

	var done dto.ServiceOrderResponse
	status = call(t, app, apphttp.RoleMechanic, http.MethodPost, "/api/service-orders/"+order.ID+"/complete", nil, &done)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "COMPLETED", done.Status)
	assert.NotNil(t, done.CompletedAt)

	var p dto.ProductResponse
	require.Equal(t, http.StatusOK, call(t, app, apphttp.RoleMechanic, http.MethodGet, "/api/products/"+oil.ID, nil, &p))
	assert.Equal(t, int64(6), p.StockQuantity)

	var movs dto.StockMovementListResponse
	require.Equal(t, http.StatusOK, call(t, app, apphttp.RoleAdmin, http.MethodGet, "/api/inventory/movements?reference=OS-00001", nil, &movs))
	require.Len(t, movs.Items, 1)
	assert.Equal(t, "EXIT", movs.Items[0].Type)

	var errBody dto.ErrorResponse
	status = call(t, app, apphttp.RoleMechanic, http.MethodPost, "/api/service-orders/"+order.ID+"/complete", nil, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_TRANSITION", errBody.Code)
}

func TestAPI_StockInsuficienteIndicaLaLinea(t *testing.T) {
	app := newAPI(t)
	oil := createProduct(t, app, "OIL", 10, "40")
	filter := createProduct(t, app, "FLT", 1, "25")

	var order dto.ServiceOrderResponse
	require.Equal(t, http.StatusCreated, call(t, app, apphttp.RoleReception, http.MethodPost, "/api/service-orders", map[string]any{
		"vehicle_id": "XYZ789",
		"items": []map[string]any{
			{"item_type": "PRODUCT", "product_id": oil.ID, "quantity": 2},
			{"item_type": "PRODUCT", "product_id": filter.ID, "quantity": 3},
		},
	}, &order))

	var lineErr dto.LineItemErrorResponse
	status := call(t, app, apphttp.RoleMechanic, http.MethodPost, "/api/service-orders/"+order.ID+"/complete", nil, &lineErr)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", lineErr.Code)
	assert.Equal(t, 2, lineErr.Position)
	assert.Equal(t, filter.ID, lineErr.ProductID)

	var p dto.ProductResponse
	call(t, app, apphttp.RoleAdmin, http.MethodGet, "/api/products/"+oil.ID, nil, &p)
	assert.Equal(t, int64(10), p.StockQuantity)
}

func TestAPI_CancelarYCorreccionManual(t *testing.T) {
	app := newAPI(t)
	oil := createProduct(t, app, "OIL", 10, "40")

	var order dto.ServiceOrderResponse
	require.Equal(t, http.StatusCreated, call(t, app, apphttp.RoleReception, http.MethodPost, "/api/service-orders",
		map[string]any{"vehicle_id": "ABC123"}, &order))
	require.Equal(t, http.StatusCreated, call(t, app, apphttp.RoleReception, http.MethodPost, "/api/service-orders/"+order.ID+"/items",
		map[string]any{"item_type": "PRODUCT", "product_id": oil.ID, "quantity": 2}, &order))

	var cancelled dto.ServiceOrderResponse
	require.Equal(t, http.StatusOK, call(t, app, apphttp.RoleReception, http.MethodPost, "/api/service-orders/"+order.ID+"/cancel", nil, &cancelled))
	assert.Equal(t, "CANCELLED", cancelled.Status)

	// movimiento manual: solo admin
	body := map[string]any{"product_id": oil.ID, "type": "CORRECTION", "quantity": 3, "reason": "conteo físico"}
	assert.Equal(t, http.StatusForbidden, call(t, app, apphttp.RoleMechanic, http.MethodPost, "/api/inventory/movements", body, nil))

	var mov dto.StockMovementResponse
	require.Equal(t, http.StatusCreated, call(t, app, apphttp.RoleAdmin, http.MethodPost, "/api/inventory/movements", body, &mov))
	assert.Equal(t, int64(10), mov.PreviousQuantity)
	assert.Equal(t, int64(3), mov.ResultingQuantity)

	var check dto.LedgerCheckResponse
	require.Equal(t, http.StatusOK, call(t, app, apphttp.RoleAdmin, http.MethodGet, "/api/inventory/products/"+oil.ID+"/ledger-check", nil, &check))
	assert.True(t, check.Consistent)

	var alerts dto.StockAlertResponse
	require.Equal(t, http.StatusOK, call(t, app, apphttp.RoleAdmin, http.MethodGet, "/api/inventory/alerts", nil, &alerts))
	assert.Equal(t, 1, alerts.LowStock)
	assert.True(t, alerts.HasAlerts)
}

func TestAPI_Errores(t *testing.T) {
	app := newAPI(t)

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, call(t, app, apphttp.RoleAdmin, http.MethodGet, "/api/service-orders/nope", nil, &errBody))
	assert.Equal(t, "ORDER_NOT_FOUND", errBody.Code)

	assert.Equal(t, http.StatusBadRequest, call(t, app, apphttp.RoleReception, http.MethodPost, "/api/service-orders", map[string]any{}, &errBody))
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Equal(t, "vehicle_id", errBody.Field)

	oil := createProduct(t, app, "OIL", 1, "40")
	assert.Equal(t, http.StatusBadRequest, call(t, app, apphttp.RoleAdmin, http.MethodPost, "/api/inventory/movements",
		map[string]any{"product_id": oil.ID, "type": "ENTRY", "quantity": 0}, &errBody))
	assert.Equal(t, "INVALID_QUANTITY", errBody.Code)

	inactive := false
	require.Equal(t, http.StatusOK, call(t, app, apphttp.RoleAdmin, http.MethodPut, "/api/products/"+oil.ID,
		map[string]any{"is_active": inactive}, nil))
	var order dto.ServiceOrderResponse
	require.Equal(t, http.StatusCreated, call(t, app, apphttp.RoleReception, http.MethodPost, "/api/service-orders",
		map[string]any{"vehicle_id": "ABC123"}, &order))
	assert.Equal(t, http.StatusUnprocessableEntity, call(t, app, apphttp.RoleReception, http.MethodPost, "/api/service-orders/"+order.ID+"/items",
		map[string]any{"item_type": "PRODUCT", "product_id": oil.ID, "quantity": 1}, &errBody))
	assert.Equal(t, "PRODUCT_INACTIVE", errBody.Code)

	assert.Equal(t, http.StatusConflict, call(t, app, apphttp.RoleReception, http.MethodPost, "/api/service-orders/"+order.ID+"/complete", nil, &errBody))
	assert.Equal(t, "EMPTY_ORDER", errBody.Code)
}

func TestAPI_TableroResumen(t *testing.T) {
	app := newAPI(t)
	oil := createProduct(t, app, "OIL", 10, "40")
	createProduct(t, app, "FLT", 1, "25")

	var order dto.ServiceOrderResponse
	require.Equal(t, http.StatusCreated, call(t, app, apphttp.RoleReception, http.MethodPost, "/api/service-orders", map[string]any{
		"vehicle_id": "ABC123",
		"items":      []map[string]any{{"item_type": "PRODUCT", "product_id": oil.ID, "quantity": 4}},
	}, &order))
	require.Equal(t, http.StatusOK, call(t, app, apphttp.RoleMechanic, http.MethodPost, "/api/service-orders/"+order.ID+"/complete", nil, nil))

	var summary dto.DashboardSummaryResponse
	require.Equal(t, http.StatusOK, call(t, app, apphttp.RoleMechanic, http.MethodGet, "/api/dashboard/summary", nil, &summary))
	assert.Equal(t, 1, summary.Orders.Completed)
	assert.Equal(t, "160", summary.Orders.Revenue.String())
	assert.Equal(t, 2, summary.StockAlerts.TotalProducts)
	assert.Equal(t, 1, summary.StockAlerts.LowStock)
	require.Len(t, summary.CriticalProducts, 1)
	assert.Equal(t, "FLT", summary.CriticalProducts[0].Code)
	assert.Equal(t, int64(4), summary.CriticalProducts[0].Shortfall)
	assert.Equal(t, "Julio 2024", summary.DateLabel)
}
