package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para órdenes de compra.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error

	// GetByID devuelve la orden con sus líneas, o nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)

	List(ctx context.Context, status string, from, to *time.Time, limit, offset int) ([]*entity.Order, error)

	// UpdateStatus aplica la transición fromStatus -> toStatus de forma condicional
	// (UPDATE ... WHERE status = fromStatus). Devuelve false si la orden no estaba
	// en fromStatus: es la guarda de una-sola-vez del ciclo de vida.
	UpdateStatus(ctx context.Context, id, fromStatus, toStatus string, arrival *time.Time) (bool, error)

	// ReplaceItems reemplaza las líneas de una orden solo si sigue en pending.
	// Devuelve false si la orden ya salió de pending.
	ReplaceItems(ctx context.Context, orderID string, items []*entity.OrderItem) (bool, error)
}
