package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/application/adjustments"
	"github.com/jhoicas/ledger-api/internal/application/ledger"
	"github.com/jhoicas/ledger-api/internal/application/orders"
	"github.com/jhoicas/ledger-api/internal/application/reports"
	"github.com/jhoicas/ledger-api/internal/application/sales"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/infrastructure/memory"
)

type nopPub struct{}

func (nopPub) Publish(entity.NotificationIntent) {}

// newTestApp arma la aplicación completa sobre el backend en memoria.
func newTestApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	trigger := ledger.NewNotificationTrigger(5, true)
	coord := ledger.NewCoordinator(store, trigger, nopPub{}, 0, nil)

	app := fiber.New()
	Router(app, RouterDeps{
		SalesUC:       sales.NewUseCase(coord, store.Sales(), nil),
		OrdersUC:      orders.NewUseCase(coord, store, store.Orders(), nil),
		AdjustmentsUC: adjustments.NewUseCase(coord, store.Adjustments(), nil),
		ReportsUC:     reports.NewUseCase(store.Stock(), store.History(), 5, nil),
	})
	return app, store
}

func seedRow(t *testing.T, store *memory.Store, productID, sizeID string, qty int64) {
	t.Helper()
	require.NoError(t, store.Stock().Upsert(context.Background(), &entity.StockRecord{
		ProductID: productID, SizeID: sizeID, Quantity: qty, UpdatedAt: time.Now(),
	}))
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func TestPostSales_CreaVentaYDescuentaStock(t *testing.T) {
	app, store := newTestApp(t)
	seedRow(t, store, "p1", "m", 10)

	status, body := doJSON(t, app, "POST", "/api/sales/", map[string]any{
		"invoice_number": "F-0001",
		"actor":          "user-1",
		"items": []map[string]any{
			{"product_id": "p1", "size_id": "m", "quantity": 3, "unit_price": "25.50"},
		},
	})

	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "F-0001", body["invoice_number"])
	rows := body["rows"].([]any)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.Equal(t, float64(10), row["previous"])
	assert.Equal(t, float64(7), row["new"])
}

func TestPostSales_StockInsuficienteDevuelve409(t *testing.T) {
	app, store := newTestApp(t)
	seedRow(t, store, "p1", "m", 2)

	status, body := doJSON(t, app, "POST", "/api/sales/", map[string]any{
		"invoice_number": "F-0002",
		"actor":          "user-1",
		"items": []map[string]any{
			{"product_id": "p1", "size_id": "m", "quantity": 5, "unit_price": "10"},
		},
	})

	require.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Equal(t, "p1", body["product_id"])
	assert.Equal(t, float64(2), body["available"])
}

func TestPostSales_CuerpoInvalidoDevuelve400(t *testing.T) {
	app, _ := newTestApp(t)

	// sin actor ni items
	status, body := doJSON(t, app, "POST", "/api/sales/", map[string]any{
		"invoice_number": "F-0003",
	})
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestGetStock_FilaSinMovimientosValeCero(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, "GET", "/api/stock/p9/xl", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(0), body["quantity"])
	assert.Equal(t, "p9", body["product_id"])
}

func TestOrderLifecycle_PorHTTP(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, "POST", "/api/orders/", map[string]any{
		"reference": "OC-001",
		"actor":     "user-1",
		"items": []map[string]any{
			{"product_id": "p1", "size_id": "m", "quantity": 20, "unit_cost": "30"},
		},
	})
	require.Equal(t, fiber.StatusCreated, status)
	orderID := body["id"].(string)
	assert.Equal(t, entity.OrderStatusPending, body["status"])

	status, body = doJSON(t, app, "POST", "/api/orders/"+orderID+"/complete", map[string]any{"actor": "user-1"})
	require.Equal(t, fiber.StatusOK, status)
	rows := body["rows"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, float64(20), rows[0].(map[string]any)["new"])

	// segunda completación: 409 sin doble crédito
	status, body = doJSON(t, app, "POST", "/api/orders/"+orderID+"/complete", map[string]any{"actor": "user-1"})
	require.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "ALREADY_COMPLETED", body["code"])

	status, body = doJSON(t, app, "GET", "/api/stock/p1/m", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(20), body["quantity"])
}

func TestGetReportsReplay_Consistente(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := doJSON(t, app, "POST", "/api/adjustments/", map[string]any{
		"actor": "user-1",
		"entries": []map[string]any{
			{"product_id": "p1", "size_id": "m", "delta": 12, "reason": "carga inicial"},
		},
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, body := doJSON(t, app, "GET", "/api/reports/replay?product_id=p1&size_id=m", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["consistent"])
	assert.Equal(t, float64(12), body["expected"])
	assert.Equal(t, float64(12), body["actual"])
}
