package entity

import "time"

// Razones de un movimiento de stock.
const (
	ReasonSale            = "sale"             // venta
	ReasonPurchaseReceipt = "purchase_receipt" // recepción de orden a proveedor
	ReasonAdjustment      = "adjustment"       // ajuste manual
	ReasonReturn          = "return"           // devolución de cliente
)

// ValidReason indica si la razón pertenece al enum conocido.
func ValidReason(reason string) bool {
	switch reason {
	case ReasonSale, ReasonPurchaseReceipt, ReasonAdjustment, ReasonReturn:
		return true
	}
	return false
}

// HistoryEntry es una línea inmutable del historial de stock.
// Invariante: NewStock = PreviousStock + Delta. Sumando los deltas de una fila
// (product, size) en orden de registro se reconstruye el stock actual.
type HistoryEntry struct {
	ID            string
	Seq           int64 // asignado por la BD; desempata entradas con el mismo timestamp
	BatchID       string
	ProductID     string
	SizeID        string
	PreviousStock int64
	NewStock      int64
	Delta         int64 // con signo
	Reason        string
	ReferenceType string // sale, order, adjustment
	ReferenceID   string
	Actor         string
	RecordedAt    time.Time
}
