package entity

import "time"

// Clases de ajuste manual.
const (
	AdjustmentKindCorrection = "adjustment" // corrección manual de inventario
	AdjustmentKindReturn     = "return"     // devolución de cliente (deltas positivos)
)

// Adjustment agrupa correcciones manuales o devoluciones aplicadas en un solo lote.
type Adjustment struct {
	ID        string
	Kind      string
	SaleRef   string // venta origen cuando Kind = return
	CreatedAt time.Time
	CreatedBy string
	Entries   []*AdjustmentEntry
}

// AdjustmentEntry una corrección por fila (product, size) con razón de texto libre.
type AdjustmentEntry struct {
	ID           string
	AdjustmentID string
	Position     int
	ProductID    string
	SizeID       string
	Delta        int64 // con signo
	Reason       string
}
