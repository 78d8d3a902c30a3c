package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo implementación de HistoryRepository sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only: no hay UPDATE ni DELETE.
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador de historial. Pasar pool o tx (Querier).
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

const historyColumns = `seq, id, batch_id, product_id, size_id, previous_stock, new_stock, delta,
		reason, reference_type, reference_id, actor, recorded_at`

// Create persiste una entrada de historial.
func (r *HistoryRepo) Create(ctx context.Context, entry *entity.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_history (id, batch_id, product_id, size_id, previous_stock, new_stock, delta,
			reason, reference_type, reference_id, actor, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING seq`
	actor := (*string)(nil)
	if entry.Actor != "" {
		actor = &entry.Actor
	}
	err := r.q.QueryRow(ctx, query,
		entry.ID, entry.BatchID, entry.ProductID, entry.SizeID,
		entry.PreviousStock, entry.NewStock, entry.Delta,
		entry.Reason, entry.ReferenceType, entry.ReferenceID,
		actor, entry.RecordedAt,
	).Scan(&entry.Seq)
	if err != nil {
		return fmt.Errorf("create history entry: %w", err)
	}
	return nil
}

func (r *HistoryRepo) scanEntries(ctx context.Context, query string, args ...any) ([]*entity.HistoryEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var list []*entity.HistoryEntry
	for rows.Next() {
		var e entity.HistoryEntry
		var actor *string
		if err := rows.Scan(&e.Seq, &e.ID, &e.BatchID, &e.ProductID, &e.SizeID,
			&e.PreviousStock, &e.NewStock, &e.Delta,
			&e.Reason, &e.ReferenceType, &e.ReferenceID, &actor, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		if actor != nil {
			e.Actor = *actor
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// ListByProductSize devuelve el historial de una fila en orden de registro
// ascendente (recorded_at, seq). limit <= 0 devuelve el historial completo.
func (r *HistoryRepo) ListByProductSize(ctx context.Context, productID, sizeID string, limit, offset int) ([]*entity.HistoryEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM stock_history
		WHERE product_id = $1 AND size_id = $2
		ORDER BY recorded_at ASC, seq ASC`, historyColumns)
	args := []any{productID, sizeID}
	if limit > 0 {
		query += " LIMIT $3 OFFSET $4"
		args = append(args, limit, offset)
	}
	return r.scanEntries(ctx, query, args...)
}

// ListPeriod lista movimientos del período, más recientes primero.
func (r *HistoryRepo) ListPeriod(ctx context.Context, from, to time.Time, limit, offset int) ([]*entity.HistoryEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM stock_history
		WHERE recorded_at >= $1 AND recorded_at <= $2
		ORDER BY recorded_at DESC, seq DESC
		LIMIT $3 OFFSET $4`, historyColumns)
	return r.scanEntries(ctx, query, from, to, limit, offset)
}

// SumDeltasUntil suma los deltas de una fila hasta el instante dado (inclusive).
func (r *HistoryRepo) SumDeltasUntil(ctx context.Context, productID, sizeID string, until time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(delta), 0)
		FROM stock_history
		WHERE product_id = $1 AND size_id = $2 AND recorded_at <= $3`
	var total int64
	if err := r.q.QueryRow(ctx, query, productID, sizeID, until).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum deltas: %w", err)
	}
	return total, nil
}

// SumByReason agrega unidades, entradas y lotes por razón en el período.
func (r *HistoryRepo) SumByReason(ctx context.Context, from, to time.Time) ([]repository.ReasonTotal, error) {
	query := `
		SELECT reason,
		       COALESCE(SUM(ABS(delta)), 0)   AS units,
		       COUNT(*)                        AS entries,
		       COUNT(DISTINCT batch_id)        AS batches
		FROM stock_history
		WHERE recorded_at >= $1 AND recorded_at <= $2
		GROUP BY reason
		ORDER BY reason`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("sum by reason: %w", err)
	}
	defer rows.Close()

	var totals []repository.ReasonTotal
	for rows.Next() {
		var t repository.ReasonTotal
		if err := rows.Scan(&t.Reason, &t.Units, &t.Entries, &t.Batches); err != nil {
			return nil, fmt.Errorf("scan reason total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
