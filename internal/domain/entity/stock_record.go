package entity

import "time"

// StockRecord representa el stock actual de un producto en una talla.
// Fuente de verdad única; se crea perezosamente al primer movimiento y solo
// muta a través del coordinador de lotes.
type StockRecord struct {
	ProductID string
	SizeID    string
	Quantity  int64 // siempre >= 0
	UpdatedAt time.Time
}
