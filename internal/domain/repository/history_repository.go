package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// ReasonTotal agregado de movimientos por razón en un período.
type ReasonTotal struct {
	Reason  string
	Units   int64 // suma de |delta|
	Entries int64
	Batches int64
}

// HistoryRepository define el puerto de persistencia del historial de stock.
// Las entradas son append-only: nunca se editan ni se borran; las correcciones
// se expresan como nuevas entradas con razón adjustment.
type HistoryRepository interface {
	Create(ctx context.Context, entry *entity.HistoryEntry) error

	// ListByProductSize devuelve el historial de una fila en orden de registro
	// ascendente (recorded_at, seq), apto para reconstruir el stock por replay.
	ListByProductSize(ctx context.Context, productID, sizeID string, limit, offset int) ([]*entity.HistoryEntry, error)

	ListPeriod(ctx context.Context, from, to time.Time, limit, offset int) ([]*entity.HistoryEntry, error)

	// SumDeltasUntil suma los deltas de una fila hasta el instante dado (inclusive).
	// Partiendo de cero, el resultado es el stock en ese punto del tiempo.
	SumDeltasUntil(ctx context.Context, productID, sizeID string, until time.Time) (int64, error)

	SumByReason(ctx context.Context, from, to time.Time) ([]ReasonTotal, error)
}
