package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/application/ledger"
	"github.com/jhoicas/ledger-api/internal/application/sales"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/infrastructure/memory"
)

type nopPub struct{}

func (nopPub) Publish(entity.NotificationIntent) {}

func newSalesUC(store *memory.Store) *sales.UseCase {
	trigger := ledger.NewNotificationTrigger(5, true)
	coord := ledger.NewCoordinator(store, trigger, nopPub{}, 0, nil)
	return sales.NewUseCase(coord, store.Sales(), nil)
}

func seed(t *testing.T, store *memory.Store, productID, sizeID string, qty int64) {
	t.Helper()
	require.NoError(t, store.Stock().Upsert(context.Background(), &entity.StockRecord{
		ProductID: productID, SizeID: sizeID, Quantity: qty, UpdatedAt: time.Now(),
	}))
}

func stockOf(t *testing.T, store *memory.Store, productID, sizeID string) int64 {
	t.Helper()
	rec, err := store.Stock().Get(context.Background(), productID, sizeID)
	require.NoError(t, err)
	return rec.Quantity
}

func TestSubmitSale_DescuentaYPersiste(t *testing.T) {
	store := memory.NewStore()
	uc := newSalesUC(store)
	seed(t, store, "p1", "m", 10)
	seed(t, store, "p1", "l", 8)

	result, err := uc.SubmitSale(context.Background(), sales.SaleInput{
		InvoiceNumber: "F-0001",
		Items: []sales.ItemInput{
			{ProductID: "p1", SizeID: "m", Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
			{ProductID: "p1", SizeID: "l", Quantity: 1, UnitPrice: decimal.NewFromInt(80)},
		},
		UserID: "user-1",
	})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(180).Equal(result.Sale.Total))
	assert.Equal(t, int64(8), stockOf(t, store, "p1", "m"))
	assert.Equal(t, int64(7), stockOf(t, store, "p1", "l"))

	sale, items, err := uc.GetSale(context.Background(), result.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "F-0001", sale.InvoiceNumber)
	assert.Len(t, items, 2)

	entries, err := store.History().ListByProductSize(context.Background(), "p1", "m", 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ReasonSale, entries[0].Reason)
	assert.Equal(t, result.Sale.ID, entries[0].ReferenceID)
}

func TestSubmitSale_SinStockNoCreaNada(t *testing.T) {
	store := memory.NewStore()
	uc := newSalesUC(store)
	seed(t, store, "p1", "m", 10)
	seed(t, store, "p1", "l", 1)

	result, err := uc.SubmitSale(context.Background(), sales.SaleInput{
		InvoiceNumber: "F-0002",
		Items: []sales.ItemInput{
			{ProductID: "p1", SizeID: "m", Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
			{ProductID: "p1", SizeID: "l", Quantity: 3, UnitPrice: decimal.NewFromInt(80)},
		},
		UserID: "user-1",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	// ni stock ni venta: el lote es todo o nada
	assert.Equal(t, int64(10), stockOf(t, store, "p1", "m"))
	assert.Equal(t, int64(1), stockOf(t, store, "p1", "l"))
	list, err := store.Sales().List(context.Background(), nil, nil, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSubmitSale_FacturaDuplicadaRevierteStock(t *testing.T) {
	store := memory.NewStore()
	uc := newSalesUC(store)
	seed(t, store, "p1", "m", 10)

	input := sales.SaleInput{
		InvoiceNumber: "F-0003",
		Items:         []sales.ItemInput{{ProductID: "p1", SizeID: "m", Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
		UserID:        "user-1",
	}
	_, err := uc.SubmitSale(context.Background(), input)
	require.NoError(t, err)

	_, err = uc.SubmitSale(context.Background(), input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	// la segunda venta falló dentro de la transacción: el stock no se tocó
	assert.Equal(t, int64(9), stockOf(t, store, "p1", "m"))
}

func TestSubmitSale_Validaciones(t *testing.T) {
	store := memory.NewStore()
	uc := newSalesUC(store)

	cases := []sales.SaleInput{
		{InvoiceNumber: "", Items: []sales.ItemInput{{ProductID: "p1", SizeID: "m", Quantity: 1}}},
		{InvoiceNumber: "F-1", Items: nil},
		{InvoiceNumber: "F-1", Items: []sales.ItemInput{{ProductID: "p1", SizeID: "m", Quantity: 0}}},
		{InvoiceNumber: "F-1", Items: []sales.ItemInput{{ProductID: "p1", SizeID: "m", Quantity: -2}}},
		{InvoiceNumber: "F-1", Items: []sales.ItemInput{{ProductID: "", SizeID: "m", Quantity: 1}}},
	}
	for _, in := range cases {
		_, err := uc.SubmitSale(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestGetSale_NoExiste(t *testing.T) {
	store := memory.NewStore()
	uc := newSalesUC(store)

	_, _, err := uc.GetSale(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
