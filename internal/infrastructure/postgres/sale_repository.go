package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste cabecera y líneas de una venta.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale, items []*entity.SaleItem) error {
	query := `
		INSERT INTO sales (id, invoice_number, customer_ref, total, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	customerRef := (*string)(nil)
	if sale.CustomerRef != "" {
		customerRef = &sale.CustomerRef
	}
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.InvoiceNumber, customerRef, sale.Total, sale.Date, sale.CreatedAt, sale.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create sale: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("create sale: %w", err)
	}

	itemQuery := `
		INSERT INTO sale_items (id, sale_id, position, product_id, size_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, it := range items {
		if _, err := r.q.Exec(ctx, itemQuery,
			it.ID, it.SaleID, it.Position, it.ProductID, it.SizeID, it.Quantity, it.UnitPrice, it.Subtotal,
		); err != nil {
			return fmt.Errorf("create sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una venta con sus líneas, o nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, []*entity.SaleItem, error) {
	query := `
		SELECT id, invoice_number, customer_ref, total, date, created_at, created_by
		FROM sales WHERE id = $1`
	var s entity.Sale
	var customerRef *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.InvoiceNumber, &customerRef, &s.Total, &s.Date, &s.CreatedAt, &s.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("get sale: %w", err)
	}
	if customerRef != nil {
		s.CustomerRef = *customerRef
	}

	itemQuery := `
		SELECT id, sale_id, position, product_id, size_id, quantity, unit_price, subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, itemQuery, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()

	var items []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.Position, &it.ProductID, &it.SizeID,
			&it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, &it)
	}
	return &s, items, rows.Err()
}

// List lista ventas en un rango de fechas, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT id, invoice_number, customer_ref, total, date, created_at, created_by
		FROM sales WHERE 1=1`
	args := []any{}
	pos := 1
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		var customerRef *string
		if err := rows.Scan(&s.ID, &s.InvoiceNumber, &customerRef, &s.Total, &s.Date, &s.CreatedAt, &s.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if customerRef != nil {
			s.CustomerRef = *customerRef
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
