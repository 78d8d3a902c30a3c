package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo implementación de AdjustmentRepository sobre PostgreSQL (usable con pool o tx).
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador de ajustes. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// Create persiste un ajuste con sus entradas.
func (r *AdjustmentRepo) Create(ctx context.Context, adjustment *entity.Adjustment) error {
	query := `
		INSERT INTO adjustments (id, kind, sale_ref, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5)`
	saleRef := (*string)(nil)
	if adjustment.SaleRef != "" {
		saleRef = &adjustment.SaleRef
	}
	_, err := r.q.Exec(ctx, query,
		adjustment.ID, adjustment.Kind, saleRef, adjustment.CreatedAt, adjustment.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create adjustment: %w", err)
	}

	entryQuery := `
		INSERT INTO adjustment_entries (id, adjustment_id, position, product_id, size_id, delta, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, e := range adjustment.Entries {
		if _, err := r.q.Exec(ctx, entryQuery,
			e.ID, e.AdjustmentID, e.Position, e.ProductID, e.SizeID, e.Delta, e.Reason,
		); err != nil {
			return fmt.Errorf("create adjustment entry: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un ajuste con sus entradas, o nil si no existe.
func (r *AdjustmentRepo) GetByID(ctx context.Context, id string) (*entity.Adjustment, error) {
	query := `
		SELECT id, kind, sale_ref, created_at, created_by
		FROM adjustments WHERE id = $1`
	var a entity.Adjustment
	var saleRef *string
	err := r.q.QueryRow(ctx, query, id).Scan(&a.ID, &a.Kind, &saleRef, &a.CreatedAt, &a.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get adjustment: %w", err)
	}
	if saleRef != nil {
		a.SaleRef = *saleRef
	}

	entryQuery := `
		SELECT id, adjustment_id, position, product_id, size_id, delta, reason
		FROM adjustment_entries WHERE adjustment_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, entryQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get adjustment entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e entity.AdjustmentEntry
		if err := rows.Scan(&e.ID, &e.AdjustmentID, &e.Position, &e.ProductID, &e.SizeID, &e.Delta, &e.Reason); err != nil {
			return nil, fmt.Errorf("scan adjustment entry: %w", err)
		}
		a.Entries = append(a.Entries, &e)
	}
	return &a, rows.Err()
}

// List lista ajustes en un rango de fechas, más recientes primero.
func (r *AdjustmentRepo) List(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Adjustment, error) {
	query := `
		SELECT id, kind, sale_ref, created_at, created_by
		FROM adjustments WHERE 1=1`
	args := []any{}
	pos := 1
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()

	var list []*entity.Adjustment
	for rows.Next() {
		var a entity.Adjustment
		var saleRef *string
		if err := rows.Scan(&a.ID, &a.Kind, &saleRef, &a.CreatedAt, &a.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		if saleRef != nil {
			a.SaleRef = *saleRef
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
