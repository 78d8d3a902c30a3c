package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de órdenes. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste una orden con sus líneas.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (id, reference, status, total_cost, created_at, arrival_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.Reference, order.Status, order.TotalCost, order.CreatedAt, order.ArrivalDate, order.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return r.insertItems(ctx, order.Items)
}

func (r *OrderRepo) insertItems(ctx context.Context, items []*entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, position, product_id, size_id, quantity, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, it := range items {
		if _, err := r.q.Exec(ctx, query,
			it.ID, it.OrderID, it.Position, it.ProductID, it.SizeID, it.Quantity, it.UnitCost, it.Subtotal,
		); err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una orden con sus líneas, o nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `
		SELECT id, reference, status, total_cost, created_at, arrival_date, created_by
		FROM orders WHERE id = $1`
	var o entity.Order
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Reference, &o.Status, &o.TotalCost, &o.CreatedAt, &o.ArrivalDate, &o.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	itemQuery := `
		SELECT id, order_id, position, product_id, size_id, quantity, unit_cost, subtotal
		FROM order_items WHERE order_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, itemQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.Position, &it.ProductID, &it.SizeID,
			&it.Quantity, &it.UnitCost, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, &it)
	}
	return &o, rows.Err()
}

// List lista órdenes filtrando por estado y rango de fechas, más recientes primero.
func (r *OrderRepo) List(ctx context.Context, status string, from, to *time.Time, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT id, reference, status, total_cost, created_at, arrival_date, created_by
		FROM orders WHERE 1=1`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
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
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.Reference, &o.Status, &o.TotalCost, &o.CreatedAt, &o.ArrivalDate, &o.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// UpdateStatus aplica la transición condicional fromStatus -> toStatus.
// Devuelve false si ninguna fila coincidió (la orden no estaba en fromStatus):
// es la guarda de una-sola-vez contra completaciones repetidas o concurrentes.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, fromStatus, toStatus string, arrival *time.Time) (bool, error) {
	query := `
		UPDATE orders SET status = $1, arrival_date = COALESCE($2, arrival_date)
		WHERE id = $3 AND status = $4`
	tag, err := r.q.Exec(ctx, query, toStatus, arrival, id, fromStatus)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ReplaceItems reemplaza las líneas de una orden solo si sigue en pending y
// recalcula el costo total. Devuelve false si la orden ya salió de pending.
func (r *OrderRepo) ReplaceItems(ctx context.Context, orderID string, items []*entity.OrderItem) (bool, error) {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	// El UPDATE condicional bloquea la fila de la orden: un Complete concurrente
	// serializa contra este reemplazo.
	tag, err := r.q.Exec(ctx,
		`UPDATE orders SET total_cost = $1 WHERE id = $2 AND status = $3`,
		total, orderID, entity.OrderStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("replace order items: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return false, fmt.Errorf("replace order items: %w", err)
	}
	if err := r.insertItems(ctx, items); err != nil {
		return false, err
	}
	return true, nil
}
