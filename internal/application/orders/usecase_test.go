package orders_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/application/ledger"
	"github.com/jhoicas/ledger-api/internal/application/orders"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/infrastructure/memory"
)

type nopPub struct{}

func (nopPub) Publish(entity.NotificationIntent) {}

func newOrdersUC(store *memory.Store) *orders.UseCase {
	trigger := ledger.NewNotificationTrigger(5, true)
	coord := ledger.NewCoordinator(store, trigger, nopPub{}, 0, nil)
	return orders.NewUseCase(coord, store, store.Orders(), nil)
}

func stockOf(t *testing.T, store *memory.Store, productID, sizeID string) int64 {
	t.Helper()
	rec, err := store.Stock().Get(context.Background(), productID, sizeID)
	require.NoError(t, err)
	return rec.Quantity
}

func pendingOrder(t *testing.T, uc *orders.UseCase) *entity.Order {
	t.Helper()
	order, err := uc.Create(context.Background(), orders.CreateInput{
		Reference: "OC-001",
		Items: []orders.ItemInput{
			{ProductID: "p1", SizeID: "m", Quantity: 20, UnitCost: decimal.NewFromInt(30)},
			{ProductID: "p1", SizeID: "l", Quantity: 10, UnitCost: decimal.NewFromInt(35)},
		},
		UserID: "user-1",
	})
	require.NoError(t, err)
	require.Equal(t, entity.OrderStatusPending, order.Status)
	return order
}

func TestCreate_QuedaEnPendingSinTocarStock(t *testing.T) {
	store := memory.NewStore()
	uc := newOrdersUC(store)

	order := pendingOrder(t, uc)

	assert.True(t, decimal.NewFromInt(950).Equal(order.TotalCost))
	assert.Equal(t, int64(0), stockOf(t, store, "p1", "m"))

	entries, err := store.History().ListByProductSize(context.Background(), "p1", "m", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, entries, "crear la orden no genera movimientos")
}

func TestComplete_IngresaStockUnaVez(t *testing.T) {
	store := memory.NewStore()
	uc := newOrdersUC(store)
	order := pendingOrder(t, uc)

	completed, rows, err := uc.Complete(context.Background(), order.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, completed.Status)
	require.NotNil(t, completed.ArrivalDate)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(20), stockOf(t, store, "p1", "m"))
	assert.Equal(t, int64(10), stockOf(t, store, "p1", "l"))

	entries, err := store.History().ListByProductSize(context.Background(), "p1", "m", 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ReasonPurchaseReceipt, entries[0].Reason)
	assert.Equal(t, order.ID, entries[0].ReferenceID)

	// la segunda completación no acredita de nuevo
	_, _, err = uc.Complete(context.Background(), order.ID, "user-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
	assert.Equal(t, int64(20), stockOf(t, store, "p1", "m"))
}

func TestComplete_ConcurrenteAcreditaUnaSolaVez(t *testing.T) {
	store := memory.NewStore()
	uc := newOrdersUC(store)
	order := pendingOrder(t, uc)

	const attempts = 10
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := uc.Complete(context.Background(), order.ID, "user-1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes int
	for err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
		}
	}
	assert.Equal(t, 1, successes, "exactamente una completación debe ganar")
	assert.Equal(t, int64(20), stockOf(t, store, "p1", "m"))
	assert.Equal(t, int64(10), stockOf(t, store, "p1", "l"))
}

func TestCancel_EsFinalYNoTocaStock(t *testing.T) {
	store := memory.NewStore()
	uc := newOrdersUC(store)
	order := pendingOrder(t, uc)

	require.NoError(t, uc.Cancel(context.Background(), order.ID))
	assert.Equal(t, int64(0), stockOf(t, store, "p1", "m"))

	// cancelada no se puede completar ni volver a cancelar
	_, _, err := uc.Complete(context.Background(), order.ID, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.ErrorIs(t, uc.Cancel(context.Background(), order.ID), domain.ErrInvalidTransition)
	assert.Equal(t, int64(0), stockOf(t, store, "p1", "m"))
}

func TestCancel_TrasCompletarFalla(t *testing.T) {
	store := memory.NewStore()
	uc := newOrdersUC(store)
	order := pendingOrder(t, uc)

	_, _, err := uc.Complete(context.Background(), order.ID, "user-1")
	require.NoError(t, err)
	assert.ErrorIs(t, uc.Cancel(context.Background(), order.ID), domain.ErrInvalidTransition)
}

func TestUpdateItems_SoloEnPending(t *testing.T) {
	store := memory.NewStore()
	uc := newOrdersUC(store)
	order := pendingOrder(t, uc)

	updated, err := uc.UpdateItems(context.Background(), order.ID, []orders.ItemInput{
		{ProductID: "p2", SizeID: "s", Quantity: 5, UnitCost: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "p2", updated.Items[0].ProductID)
	assert.True(t, decimal.NewFromInt(50).Equal(updated.TotalCost))

	_, _, err = uc.Complete(context.Background(), order.ID, "user-1")
	require.NoError(t, err)

	// completada, las líneas quedan congeladas
	_, err = uc.UpdateItems(context.Background(), order.ID, []orders.ItemInput{
		{ProductID: "p3", SizeID: "s", Quantity: 1, UnitCost: decimal.NewFromInt(10)},
	})
	assert.ErrorIs(t, err, domain.ErrOrderNotEditable)

	// el stock ingresado corresponde a las líneas editadas, no a las originales
	assert.Equal(t, int64(5), stockOf(t, store, "p2", "s"))
	assert.Equal(t, int64(0), stockOf(t, store, "p1", "m"))
}

func TestComplete_OrdenInexistente(t *testing.T) {
	store := memory.NewStore()
	uc := newOrdersUC(store)

	_, _, err := uc.Complete(context.Background(), "no-existe", "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Cancel(context.Background(), "no-existe"), domain.ErrNotFound)
}

func TestList_FiltraPorEstado(t *testing.T) {
	store := memory.NewStore()
	uc := newOrdersUC(store)

	first := pendingOrder(t, uc)
	time.Sleep(2 * time.Millisecond)
	second := pendingOrder(t, uc)
	_, _, err := uc.Complete(context.Background(), second.ID, "user-1")
	require.NoError(t, err)

	pending, err := uc.List(context.Background(), entity.OrderStatusPending, nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	completed, err := uc.List(context.Background(), entity.OrderStatusCompleted, nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, second.ID, completed[0].ID)
}
