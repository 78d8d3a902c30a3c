package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/application/ledger"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/jhoicas/ledger-api/pkg/logger"
)

// UseCase gobierna el ciclo de vida de órdenes de compra a proveedor:
// pending -> completed (ingresa stock una sola vez) o pending -> cancelled.
// Ambos estados finales; no hay transición de salida.
type UseCase struct {
	coordinator *ledger.Coordinator
	tx          ledger.TxRunner
	orderRepo   repository.OrderRepository
	log         *logger.Logger
}

// NewUseCase construye el caso de uso de órdenes.
func NewUseCase(coordinator *ledger.Coordinator, tx ledger.TxRunner, orderRepo repository.OrderRepository, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{coordinator: coordinator, tx: tx, orderRepo: orderRepo, log: log}
}

// ItemInput una línea de la orden de compra.
type ItemInput struct {
	ProductID string
	SizeID    string
	Quantity  int64
	UnitCost  decimal.Decimal
}

// CreateInput entrada para crear una orden en estado pending.
type CreateInput struct {
	Reference string
	Items     []ItemInput
	UserID    string
}

func buildItems(orderID string, inputs []ItemInput) ([]*entity.OrderItem, decimal.Decimal, error) {
	total := decimal.Zero
	items := make([]*entity.OrderItem, len(inputs))
	for i, it := range inputs {
		if it.ProductID == "" || it.SizeID == "" || it.Quantity <= 0 || it.UnitCost.IsNegative() {
			return nil, decimal.Zero, domain.ErrInvalidInput
		}
		subtotal := it.UnitCost.Mul(decimal.NewFromInt(it.Quantity))
		items[i] = &entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			Position:  i,
			ProductID: it.ProductID,
			SizeID:    it.SizeID,
			Quantity:  it.Quantity,
			UnitCost:  it.UnitCost,
			Subtotal:  subtotal,
		}
		total = total.Add(subtotal)
	}
	return items, total, nil
}

// Create registra una orden nueva en pending con sus líneas.
func (uc *UseCase) Create(ctx context.Context, input CreateInput) (*entity.Order, error) {
	if input.Reference == "" || len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	orderID := uuid.New().String()
	items, total, err := buildItems(orderID, input.Items)
	if err != nil {
		return nil, err
	}
	order := &entity.Order{
		ID:        orderID,
		Reference: input.Reference,
		Status:    entity.OrderStatusPending,
		TotalCost: total,
		CreatedAt: time.Now(),
		CreatedBy: input.UserID,
		Items:     items,
	}
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", orderID).Str("reference", input.Reference).Msg("orden creada")
	return order, nil
}

// UpdateItems reemplaza las líneas de una orden. Solo permitido en pending.
func (uc *UseCase) UpdateItems(ctx context.Context, orderID string, inputs []ItemInput) (*entity.Order, error) {
	if orderID == "" || len(inputs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	items, _, err := buildItems(orderID, inputs)
	if err != nil {
		return nil, err
	}

	// Reemplazo guardado por estado dentro de una transacción: si la orden ya
	// salió de pending el cambio completo se descarta.
	err = uc.tx.Run(ctx, func(r ledger.Repos) error {
		order, err := r.Orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderStatusPending {
			return domain.ErrOrderNotEditable
		}
		ok, err := r.Orders.ReplaceItems(ctx, orderID, items)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrOrderNotEditable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.orderRepo.GetByID(ctx, orderID)
}

// Complete ejecuta la transición pending -> completed e ingresa el stock de la
// orden exactamente una vez. La guarda es el UPDATE condicional de estado dentro
// de la misma transacción que el lote: una completación concurrente o repetida
// observa el estado ya tomado y falla con ErrAlreadyCompleted sin acreditar
// stock dos veces.
func (uc *UseCase) Complete(ctx context.Context, orderID, userID string) (*entity.Order, []ledger.RowResult, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, domain.ErrNotFound
	}
	switch order.Status {
	case entity.OrderStatusCompleted:
		return nil, nil, domain.ErrAlreadyCompleted
	case entity.OrderStatusCancelled:
		return nil, nil, domain.ErrInvalidTransition
	}
	if len(order.Items) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}

	rows := make([]ledger.Row, len(order.Items))
	for i, it := range order.Items {
		rows[i] = ledger.Row{ProductID: it.ProductID, SizeID: it.SizeID, Delta: it.Quantity}
	}

	now := time.Now()
	ref := ledger.Reference{Type: "order", ID: orderID}
	results, err := uc.coordinator.SubmitWith(ctx, entity.ReasonPurchaseReceipt, ref, userID, rows,
		func(ctx context.Context, r ledger.Repos) error {
			ok, err := r.Orders.UpdateStatus(ctx, orderID, entity.OrderStatusPending, entity.OrderStatusCompleted, &now)
			if err != nil {
				return &domain.PersistenceError{Op: "completar orden", Err: err}
			}
			if !ok {
				// otra petición ganó la transición; distinguir cancelada de completada
				current, err := r.Orders.GetByID(ctx, orderID)
				if err == nil && current != nil && current.Status == entity.OrderStatusCancelled {
					return domain.ErrInvalidTransition
				}
				return domain.ErrAlreadyCompleted
			}
			return nil
		})
	if err != nil {
		return nil, nil, err
	}

	order.Status = entity.OrderStatusCompleted
	order.ArrivalDate = &now
	uc.log.Info().Str("order_id", orderID).Int("items", len(order.Items)).Msg("orden completada, stock ingresado")
	return order, results, nil
}

// Cancel ejecuta la transición pending -> cancelled. No toca el stock.
func (uc *UseCase) Cancel(ctx context.Context, orderID string) error {
	ok, err := uc.orderRepo.UpdateStatus(ctx, orderID, entity.OrderStatusPending, entity.OrderStatusCancelled, nil)
	if err != nil {
		return err
	}
	if !ok {
		order, err := uc.orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		return domain.ErrInvalidTransition
	}
	uc.log.Info().Str("order_id", orderID).Msg("orden cancelada")
	return nil
}

// Get devuelve una orden con sus líneas.
func (uc *UseCase) Get(ctx context.Context, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// List lista órdenes filtrando por estado y rango de fechas.
func (uc *UseCase) List(ctx context.Context, status string, from, to *time.Time, limit, offset int) ([]*entity.Order, error) {
	return uc.orderRepo.List(ctx, status, from, to, limit, offset)
}
