package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra a proveedor. Las transiciones son de una sola
// vía: pending -> completed o pending -> cancelled; ambos finales.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order representa una orden de compra a proveedor.
// Solo muta a través de las transiciones del ciclo de vida; sus líneas dejan
// de ser editables al salir de pending.
type Order struct {
	ID          string
	Reference   string
	Status      string
	TotalCost   decimal.Decimal
	CreatedAt   time.Time
	ArrivalDate *time.Time // se fija al completar
	CreatedBy   string
	Items       []*OrderItem
}

// OrderItem representa una línea de la orden de compra.
type OrderItem struct {
	ID        string
	OrderID   string
	Position  int
	ProductID string
	SizeID    string
	Quantity  int64
	UnitCost  decimal.Decimal
	Subtotal  decimal.Decimal
}
