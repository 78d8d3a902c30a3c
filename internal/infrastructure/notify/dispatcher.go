// Package notify es el borde con el colaborador de entrega de notificaciones.
// El ledger solo emite intents; la entrega (toast, push, email) es externa.
package notify

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/application/ledger"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/pkg/logger"
)

// Sink entrega un intent al colaborador externo (Redis, log).
type Sink interface {
	Deliver(ctx context.Context, intent entity.NotificationIntent) error
}

var _ ledger.Publisher = (*Dispatcher)(nil)

// Dispatcher desacopla la emisión de intents de su entrega: Publish encola sin
// bloquear y un worker los drena hacia el sink. Un lote nunca espera por la
// entrega de sus notificaciones.
type Dispatcher struct {
	ch   chan entity.NotificationIntent
	sink Sink
	log  *logger.Logger
	done chan struct{}
}

// NewDispatcher construye el dispatcher con el buffer indicado.
func NewDispatcher(sink Sink, buffer int, log *logger.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		ch:   make(chan entity.NotificationIntent, buffer),
		sink: sink,
		log:  log,
		done: make(chan struct{}),
	}
}

// Start arranca el worker de entrega. Termina al cancelar ctx o cerrar el canal.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		defer close(d.done)
		for {
			select {
			case intent, ok := <-d.ch:
				if !ok {
					return
				}
				if err := d.sink.Deliver(ctx, intent); err != nil {
					d.log.Error().Err(err).
						Str("type", intent.Type).
						Str("product_id", intent.ProductID).
						Str("size_id", intent.SizeID).
						Msg("entrega de intent fallida")
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Publish encola un intent sin bloquear. Si el buffer está lleno se descarta
// con un warning: una alerta perdida es preferible a frenar un lote de stock.
func (d *Dispatcher) Publish(intent entity.NotificationIntent) {
	select {
	case d.ch <- intent:
	default:
		d.log.Warn().
			Str("type", intent.Type).
			Str("product_id", intent.ProductID).
			Str("size_id", intent.SizeID).
			Msg("buffer de notificaciones lleno, intent descartado")
	}
}

// Close cierra la cola y espera a que el worker drene lo pendiente.
func (d *Dispatcher) Close() {
	close(d.ch)
	<-d.done
}
