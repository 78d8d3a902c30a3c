package ledger

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción de BD.
type Repos struct {
	Stock       repository.StockRepository
	History     repository.HistoryRepository
	Sales       repository.SaleRepository
	Orders      repository.OrderRepository
	Adjustments repository.AdjustmentRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios
// atados a esa tx. Garantiza atomicidad: si fn devuelve error no queda ninguna
// escritura, ni de stock ni de historial.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// Publisher recibe los intents de notificación emitidos por el motor.
// Publish no debe bloquear: la entrega es asíncrona y externa al ledger.
type Publisher interface {
	Publish(intent entity.NotificationIntent)
}
