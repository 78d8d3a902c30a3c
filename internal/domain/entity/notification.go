package entity

import "time"

// Tipos y prioridades de intents de notificación.
const (
	NotificationStockLow       = "stock_low"
	NotificationStockRestocked = "stock_restocked"

	PriorityHigh   = "high"
	PriorityNormal = "normal"
)

// NotificationIntent señala un cruce de umbral detectado por el motor.
// Es efímero: el ledger solo lo emite; la entrega (toast, push, email) es externa.
type NotificationIntent struct {
	Type      string    `json:"type"`
	Priority  string    `json:"priority"`
	ProductID string    `json:"product_id"`
	SizeID    string    `json:"size_id"`
	Quantity  int64     `json:"quantity"`  // stock tras el cruce
	Threshold int64     `json:"threshold"` // umbral T vigente
	Message   string    `json:"message"`
	EmittedAt time.Time `json:"emitted_at"`
}
