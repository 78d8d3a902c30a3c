package ledger

import (
	"fmt"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// StockChange un cambio de stock observado por el motor en un lote (valores netos por fila).
type StockChange struct {
	ProductID string
	SizeID    string
	Previous  int64
	New       int64
}

// NotificationTrigger detecta cruces de umbral por flanco (edge-triggered):
// stock_low solo en el cruce descendente (previous >= T y new < T), nunca en
// decrementos posteriores ya por debajo de T; stock_restocked en el cruce
// ascendente si restockNotices está activo. Evita tormentas de alertas por
// muchos decrementos pequeños consecutivos.
type NotificationTrigger struct {
	threshold      int64
	restockNotices bool
}

// NewNotificationTrigger construye el trigger con el umbral T configurado.
func NewNotificationTrigger(threshold int64, restockNotices bool) *NotificationTrigger {
	return &NotificationTrigger{threshold: threshold, restockNotices: restockNotices}
}

// Evaluate examina los cambios de un lote ya aplicado y devuelve los intents a emitir.
func (t *NotificationTrigger) Evaluate(changes []StockChange) []entity.NotificationIntent {
	var intents []entity.NotificationIntent
	now := time.Now()

	for _, ch := range changes {
		switch {
		case ch.Previous >= t.threshold && ch.New < t.threshold:
			priority := entity.PriorityNormal
			if ch.New == 0 {
				priority = entity.PriorityHigh
			}
			intents = append(intents, entity.NotificationIntent{
				Type:      entity.NotificationStockLow,
				Priority:  priority,
				ProductID: ch.ProductID,
				SizeID:    ch.SizeID,
				Quantity:  ch.New,
				Threshold: t.threshold,
				Message:   fmt.Sprintf("stock bajo: producto %s talla %s quedó en %d (umbral %d)", ch.ProductID, ch.SizeID, ch.New, t.threshold),
				EmittedAt: now,
			})
		case t.restockNotices && ch.Previous < t.threshold && ch.New >= t.threshold:
			intents = append(intents, entity.NotificationIntent{
				Type:      entity.NotificationStockRestocked,
				Priority:  entity.PriorityNormal,
				ProductID: ch.ProductID,
				SizeID:    ch.SizeID,
				Quantity:  ch.New,
				Threshold: t.threshold,
				Message:   fmt.Sprintf("stock repuesto: producto %s talla %s subió a %d (umbral %d)", ch.ProductID, ch.SizeID, ch.New, t.threshold),
				EmittedAt: now,
			})
		}
	}
	return intents
}
