package adjustments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ledger-api/internal/application/ledger"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/jhoicas/ledger-api/pkg/logger"
)

// UseCase aplica ajustes manuales y devoluciones como un solo lote atómico.
// Las correcciones nunca editan historial existente: siempre generan entradas
// nuevas con su propia razón.
type UseCase struct {
	coordinator    *ledger.Coordinator
	adjustmentRepo repository.AdjustmentRepository
	log            *logger.Logger
}

// NewUseCase construye el caso de uso de ajustes.
func NewUseCase(coordinator *ledger.Coordinator, adjustmentRepo repository.AdjustmentRepository, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{coordinator: coordinator, adjustmentRepo: adjustmentRepo, log: log}
}

// EntryInput una corrección por fila con razón de texto libre.
type EntryInput struct {
	ProductID string
	SizeID    string
	Delta     int64
	Reason    string
}

// Input entrada para aplicar un ajuste o una devolución.
type Input struct {
	Kind    string // adjustment (default) o return
	SaleRef string // venta origen, obligatoria cuando Kind = return
	Entries []EntryInput
	UserID  string
}

// Result ajuste confirmado con el stock resultante por línea.
type Result struct {
	Adjustment *entity.Adjustment
	Rows       []ledger.RowResult
}

// Submit valida las entradas y aplica el lote. Una devolución exige deltas
// positivos y referencia a la venta origen; queda en el historial con razón
// return para distinguirla de una corrección manual.
func (uc *UseCase) Submit(ctx context.Context, input Input) (*Result, error) {
	if len(input.Entries) == 0 {
		return nil, domain.ErrInvalidInput
	}
	kind := input.Kind
	if kind == "" {
		kind = entity.AdjustmentKindCorrection
	}
	if kind != entity.AdjustmentKindCorrection && kind != entity.AdjustmentKindReturn {
		return nil, domain.ErrInvalidInput
	}
	if kind == entity.AdjustmentKindReturn && input.SaleRef == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, e := range input.Entries {
		if e.ProductID == "" || e.SizeID == "" || e.Delta == 0 {
			return nil, domain.ErrInvalidInput
		}
		if kind == entity.AdjustmentKindReturn && e.Delta < 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	adjID := uuid.New().String()
	entries := make([]*entity.AdjustmentEntry, len(input.Entries))
	rows := make([]ledger.Row, len(input.Entries))
	for i, e := range input.Entries {
		entries[i] = &entity.AdjustmentEntry{
			ID:           uuid.New().String(),
			AdjustmentID: adjID,
			Position:     i,
			ProductID:    e.ProductID,
			SizeID:       e.SizeID,
			Delta:        e.Delta,
			Reason:       e.Reason,
		}
		rows[i] = ledger.Row{ProductID: e.ProductID, SizeID: e.SizeID, Delta: e.Delta}
	}

	adjustment := &entity.Adjustment{
		ID:        adjID,
		Kind:      kind,
		SaleRef:   input.SaleRef,
		CreatedAt: now,
		CreatedBy: input.UserID,
		Entries:   entries,
	}

	reason := entity.ReasonAdjustment
	if kind == entity.AdjustmentKindReturn {
		reason = entity.ReasonReturn
	}

	ref := ledger.Reference{Type: "adjustment", ID: adjID}
	results, err := uc.coordinator.SubmitWith(ctx, reason, ref, input.UserID, rows,
		func(ctx context.Context, r ledger.Repos) error {
			if err := r.Adjustments.Create(ctx, adjustment); err != nil {
				return &domain.PersistenceError{Op: "crear ajuste", Err: err}
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("adjustment_id", adjID).Str("kind", kind).Int("entries", len(entries)).Msg("ajuste aplicado")
	return &Result{Adjustment: adjustment, Rows: results}, nil
}

// Get devuelve un ajuste con sus entradas.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.Adjustment, error) {
	adj, err := uc.adjustmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if adj == nil {
		return nil, domain.ErrNotFound
	}
	return adj, nil
}

// List lista ajustes en un rango de fechas.
func (uc *UseCase) List(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Adjustment, error) {
	return uc.adjustmentRepo.List(ctx, from, to, limit, offset)
}
