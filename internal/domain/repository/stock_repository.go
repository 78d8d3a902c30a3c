package repository

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// StockRepository define el puerto de persistencia para el stock por (producto, talla).
// Get devuelve una fila en cero si no existe (creación perezosa al primer movimiento).
type StockRepository interface {
	Get(ctx context.Context, productID, sizeID string) (*entity.StockRecord, error)
	Upsert(ctx context.Context, record *entity.StockRecord) error
	List(ctx context.Context, limit, offset int) ([]*entity.StockRecord, error)

	// ListBelowThreshold devuelve las filas con stock actual inferior al umbral,
	// ordenadas por mayor déficit primero.
	ListBelowThreshold(ctx context.Context, threshold int64) ([]*entity.StockRecord, error)
}
