package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa la cabecera de una venta. Se crea atómicamente con sus líneas
// y es inmutable después (no hay ventas parciales).
type Sale struct {
	ID            string
	InvoiceNumber string
	CustomerRef   string // opcional
	Total         decimal.Decimal
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string
}

// SaleItem representa una línea de venta.
type SaleItem struct {
	ID        string
	SaleID    string
	Position  int // orden de la línea dentro de la venta
	ProductID string
	SizeID    string
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
