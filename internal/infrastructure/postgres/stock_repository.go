package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de una fila (producto, talla).
// Devuelve una fila en cero si no existe: las filas se crean perezosamente.
func (r *StockRepo) Get(ctx context.Context, productID, sizeID string) (*entity.StockRecord, error) {
	query := `
		SELECT product_id, size_id, quantity, updated_at
		FROM stock_records WHERE product_id = $1 AND size_id = $2`
	var s entity.StockRecord
	err := r.q.QueryRow(ctx, query, productID, sizeID).Scan(
		&s.ProductID, &s.SizeID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockRecord{ProductID: productID, SizeID: sizeID, Quantity: 0}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad de una fila de stock.
func (r *StockRepo) Upsert(ctx context.Context, record *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (product_id, size_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, size_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, record.ProductID, record.SizeID, record.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// List devuelve el stock actual paginado, ordenado por (product_id, size_id).
func (r *StockRepo) List(ctx context.Context, limit, offset int) ([]*entity.StockRecord, error) {
	query := `
		SELECT product_id, size_id, quantity, updated_at
		FROM stock_records
		ORDER BY product_id, size_id
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockRecord
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.ProductID, &s.SizeID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// ListBelowThreshold devuelve las filas con stock inferior al umbral, mayor déficit primero.
func (r *StockRepo) ListBelowThreshold(ctx context.Context, threshold int64) ([]*entity.StockRecord, error) {
	query := `
		SELECT product_id, size_id, quantity, updated_at
		FROM stock_records
		WHERE quantity < $1
		ORDER BY quantity ASC, product_id, size_id`
	rows, err := r.q.Query(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("list below threshold: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockRecord
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.ProductID, &s.SizeID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
