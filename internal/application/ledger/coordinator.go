package ledger

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/pkg/logger"
)

// Row un delta de stock sobre una fila (producto, talla), parte de un lote.
type Row struct {
	ProductID string
	SizeID    string
	Delta     int64 // con signo
}

// Reference la entidad causante del lote (venta, orden, ajuste).
type Reference struct {
	Type string
	ID   string
}

// RowResult valores confirmados de una línea tras aplicar el lote, alineado
// con la línea original del caller (orden de envío).
type RowResult struct {
	ProductID string
	SizeID    string
	Previous  int64
	New       int64
}

// Coordinator aplica lotes de deltas de stock de forma atómica: todos o ninguno.
// Protocolo por lote: coalescer y ordenar filas, bloquear en orden ascendente,
// proyectar invariantes, aplicar deltas y escribir historial dentro de una misma
// transacción, evaluar cruces de umbral, liberar bloqueos.
type Coordinator struct {
	tx      TxRunner
	locks   *rowLockManager
	trigger *NotificationTrigger
	pub     Publisher
	log     *logger.Logger
}

// NewCoordinator construye el coordinador. lockWait acota la espera por fila
// bloqueada antes de devolver ErrBusy.
func NewCoordinator(tx TxRunner, trigger *NotificationTrigger, pub Publisher, lockWait time.Duration, log *logger.Logger) *Coordinator {
	if lockWait <= 0 {
		lockWait = 2 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Coordinator{
		tx:      tx,
		locks:   newRowLockManager(lockWait),
		trigger: trigger,
		pub:     pub,
		log:     log,
	}
}

// Submit aplica un lote de deltas. Ver SubmitWith.
func (c *Coordinator) Submit(ctx context.Context, reason string, ref Reference, actor string, rows []Row) ([]RowResult, error) {
	return c.SubmitWith(ctx, reason, ref, actor, rows, nil)
}

// SubmitWith aplica un lote de deltas y, dentro de la misma transacción, ejecuta
// within antes de tocar el stock. Los usecases lo usan para persistir la entidad
// de referencia (venta, ajuste) o reclamar una transición de orden en el mismo
// alcance atómico: si within falla, ninguna fila muta.
//
// Si alguna fila proyectada quedara negativa, el lote completo se aborta y se
// devuelve InsufficientStockError con la primera fila ofensora en orden de
// bloqueo (determinista). Una entrada de historial por línea original, con
// previous/new corridos en orden de envío aunque el chequeo se haga sobre el
// delta neto coalescido.
func (c *Coordinator) SubmitWith(
	ctx context.Context,
	reason string,
	ref Reference,
	actor string,
	rows []Row,
	within func(ctx context.Context, r Repos) error,
) ([]RowResult, error) {
	if len(rows) == 0 || !entity.ValidReason(reason) {
		return nil, domain.ErrInvalidInput
	}
	for _, row := range rows {
		if row.ProductID == "" || row.SizeID == "" {
			return nil, domain.ErrInvalidInput
		}
	}

	// 1. Coalescer deltas por fila y fijar el orden total de bloqueo.
	net := make(map[rowKey]int64, len(rows))
	keys := make([]rowKey, 0, len(rows))
	for _, row := range rows {
		k := rowKey{row.ProductID, row.SizeID}
		if _, seen := net[k]; !seen {
			keys = append(keys, k)
		}
		net[k] += row.Delta
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	// 2. Bloqueos en orden ascendente: lotes solapados no se interbloquean.
	release, err := c.locks.acquire(ctx, keys)
	if err != nil {
		return nil, err
	}
	defer release()

	batchID := uuid.New().String()
	now := time.Now()
	results := make([]RowResult, len(rows))
	changes := make([]StockChange, 0, len(keys))

	err = c.tx.Run(ctx, func(r Repos) error {
		if within != nil {
			if err := within(ctx, r); err != nil {
				return err
			}
		}

		// 3. Proyección sobre el delta neto: si alguna fila quedaría negativa
		// se aborta el lote completo, sin aplicación parcial.
		current := make(map[rowKey]int64, len(keys))
		for _, k := range keys {
			rec, err := r.Stock.Get(ctx, k.productID, k.sizeID)
			if err != nil {
				return &domain.PersistenceError{Op: "leer stock", Err: err}
			}
			current[k] = rec.Quantity
		}
		for _, k := range keys {
			if current[k]+net[k] < 0 {
				return &domain.InsufficientStockError{
					ProductID: k.productID,
					SizeID:    k.sizeID,
					Requested: net[k],
					Available: current[k],
				}
			}
		}

		// 4. Aplicar todos los deltas.
		for _, k := range keys {
			rec := &entity.StockRecord{
				ProductID: k.productID,
				SizeID:    k.sizeID,
				Quantity:  current[k] + net[k],
				UpdatedAt: now,
			}
			if err := r.Stock.Upsert(ctx, rec); err != nil {
				return &domain.PersistenceError{Op: "aplicar stock", Err: err}
			}
		}

		// 5. Una entrada de historial por línea original del caller, con
		// previous/new corridos según el orden de envío. La transacción
		// garantiza que el stock nunca queda por delante de su historial.
		running := make(map[rowKey]int64, len(keys))
		for k, v := range current {
			running[k] = v
		}
		for i, row := range rows {
			k := rowKey{row.ProductID, row.SizeID}
			prev := running[k]
			next := prev + row.Delta
			entry := &entity.HistoryEntry{
				ID:            uuid.New().String(),
				BatchID:       batchID,
				ProductID:     row.ProductID,
				SizeID:        row.SizeID,
				PreviousStock: prev,
				NewStock:      next,
				Delta:         row.Delta,
				Reason:        reason,
				ReferenceType: ref.Type,
				ReferenceID:   ref.ID,
				Actor:         actor,
				RecordedAt:    now,
			}
			if err := r.History.Create(ctx, entry); err != nil {
				return &domain.PersistenceError{Op: "registrar historial", Err: err}
			}
			running[k] = next
			results[i] = RowResult{ProductID: row.ProductID, SizeID: row.SizeID, Previous: prev, New: next}
		}

		for _, k := range keys {
			changes = append(changes, StockChange{
				ProductID: k.productID,
				SizeID:    k.sizeID,
				Previous:  current[k],
				New:       current[k] + net[k],
			})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			// condición de negocio esperada, no una falla
			c.log.Debug().Str("reason", reason).Str("ref_id", ref.ID).Err(err).Msg("lote rechazado por stock insuficiente")
		} else {
			c.log.Error().Str("reason", reason).Str("ref_id", ref.ID).Err(err).Msg("lote abortado")
		}
		return nil, err
	}

	// 6. Evaluar cruces de umbral y encolar intents; la entrega es asíncrona
	// y externa, nunca bloquea al lote.
	if c.trigger != nil && c.pub != nil {
		for _, intent := range c.trigger.Evaluate(changes) {
			c.pub.Publish(intent)
		}
	}

	c.log.Info().
		Str("reason", reason).
		Str("ref_type", ref.Type).
		Str("ref_id", ref.ID).
		Str("batch_id", batchID).
		Int("rows", len(rows)).
		Msg("lote aplicado")
	return results, nil
}
