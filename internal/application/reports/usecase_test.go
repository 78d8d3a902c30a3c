package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/application/ledger"
	"github.com/jhoicas/ledger-api/internal/application/reports"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/infrastructure/memory"
)

type nopPub struct{}

func (nopPub) Publish(entity.NotificationIntent) {}

func newFixture(t *testing.T) (*memory.Store, *ledger.Coordinator, *reports.UseCase) {
	t.Helper()
	store := memory.NewStore()
	trigger := ledger.NewNotificationTrigger(5, true)
	coord := ledger.NewCoordinator(store, trigger, nopPub{}, 0, nil)
	uc := reports.NewUseCase(store.Stock(), store.History(), 5, nil)
	return store, coord, uc
}

func submit(t *testing.T, coord *ledger.Coordinator, reason string, rows ...ledger.Row) {
	t.Helper()
	_, err := coord.Submit(context.Background(), reason, ledger.Reference{Type: reason, ID: "ref-" + reason}, "user-1", rows)
	require.NoError(t, err)
}

func TestStockAt_ReconstruyeElPasado(t *testing.T) {
	_, coord, uc := newFixture(t)

	submit(t, coord, entity.ReasonPurchaseReceipt, ledger.Row{ProductID: "p1", SizeID: "m", Delta: 20})
	afterReceipt := time.Now()
	time.Sleep(5 * time.Millisecond)
	submit(t, coord, entity.ReasonSale, ledger.Row{ProductID: "p1", SizeID: "m", Delta: -7})

	qty, err := uc.StockAt(context.Background(), "p1", "m", afterReceipt)
	require.NoError(t, err)
	assert.Equal(t, int64(20), qty)

	qty, err = uc.StockAt(context.Background(), "p1", "m", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(13), qty)

	// antes de cualquier movimiento la fila vale cero
	qty, err = uc.StockAt(context.Background(), "p1", "m", afterReceipt.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty)
}

func TestVerifyReplay_HistorialConsistente(t *testing.T) {
	store, coord, uc := newFixture(t)

	submit(t, coord, entity.ReasonPurchaseReceipt, ledger.Row{ProductID: "p1", SizeID: "m", Delta: 20})
	submit(t, coord, entity.ReasonSale, ledger.Row{ProductID: "p1", SizeID: "m", Delta: -7})
	submit(t, coord, entity.ReasonAdjustment, ledger.Row{ProductID: "p1", SizeID: "m", Delta: -1})

	report, err := uc.VerifyReplay(context.Background(), "p1", "m")
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Equal(t, int64(12), report.Expected)
	assert.Equal(t, int64(12), report.Actual)

	// si alguien toca el stock por fuera del ledger, el replay lo delata
	require.NoError(t, store.Stock().Upsert(context.Background(), &entity.StockRecord{
		ProductID: "p1", SizeID: "m", Quantity: 99, UpdatedAt: time.Now(),
	}))
	report, err = uc.VerifyReplay(context.Background(), "p1", "m")
	require.NoError(t, err)
	assert.False(t, report.Consistent)
	assert.NotEmpty(t, report.Detail)
}

func TestLowStock_SoloFilasBajoElUmbral(t *testing.T) {
	store, _, uc := newFixture(t)

	require.NoError(t, store.Stock().Upsert(context.Background(), &entity.StockRecord{ProductID: "p1", SizeID: "m", Quantity: 2, UpdatedAt: time.Now()}))
	require.NoError(t, store.Stock().Upsert(context.Background(), &entity.StockRecord{ProductID: "p1", SizeID: "l", Quantity: 5, UpdatedAt: time.Now()}))
	require.NoError(t, store.Stock().Upsert(context.Background(), &entity.StockRecord{ProductID: "p2", SizeID: "m", Quantity: 0, UpdatedAt: time.Now()}))

	low, err := uc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 2, "quantity == umbral no es stock bajo")
	assert.Equal(t, "p2", low[0].ProductID)
	assert.Equal(t, int64(0), low[0].Quantity)
	assert.Equal(t, "p1", low[1].ProductID)
}

func TestPeriodSummary_AgrupaPorRazon(t *testing.T) {
	_, coord, uc := newFixture(t)
	from := time.Now().Add(-time.Minute)

	submit(t, coord, entity.ReasonPurchaseReceipt, ledger.Row{ProductID: "p1", SizeID: "m", Delta: 20})
	submit(t, coord, entity.ReasonSale,
		ledger.Row{ProductID: "p1", SizeID: "m", Delta: -3},
		ledger.Row{ProductID: "p1", SizeID: "l", Delta: -2})
	submit(t, coord, entity.ReasonSale, ledger.Row{ProductID: "p1", SizeID: "m", Delta: -1})

	totals, err := uc.PeriodSummary(context.Background(), from, time.Now())
	require.NoError(t, err)
	require.Len(t, totals, 2)

	byReason := make(map[string]int64)
	batches := make(map[string]int64)
	for _, tt := range totals {
		byReason[tt.Reason] = tt.Units
		batches[tt.Reason] = tt.Batches
	}
	assert.Equal(t, int64(20), byReason[entity.ReasonPurchaseReceipt])
	assert.Equal(t, int64(6), byReason[entity.ReasonSale], "las unidades se suman en valor absoluto")
	assert.Equal(t, int64(2), batches[entity.ReasonSale])
}

func TestRow_FilaSinMovimientosValeCero(t *testing.T) {
	_, _, uc := newFixture(t)

	rec, err := uc.Row(context.Background(), "nunca", "visto")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.Quantity)
}

func TestMovements_OrdenDescendente(t *testing.T) {
	_, coord, uc := newFixture(t)
	from := time.Now().Add(-time.Minute)

	submit(t, coord, entity.ReasonPurchaseReceipt, ledger.Row{ProductID: "p1", SizeID: "m", Delta: 10})
	time.Sleep(2 * time.Millisecond)
	submit(t, coord, entity.ReasonSale, ledger.Row{ProductID: "p1", SizeID: "m", Delta: -4})

	movements, err := uc.Movements(context.Background(), from, time.Now(), 10, 0)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, int64(-4), movements[0].Delta, "el movimiento más reciente va primero")
	assert.Equal(t, int64(10), movements[1].Delta)
}
