package sales

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

// UseCase registra ventas: descuenta stock y persiste la venta en el mismo
// alcance atómico. Si cualquier línea dejaría stock negativo, no se crea nada.
type UseCase struct {
	coordinator *ledger.Coordinator
	saleRepo    repository.SaleRepository
	log         *logger.Logger
}

// NewUseCase construye el caso de uso de ventas.
func NewUseCase(coordinator *ledger.Coordinator, saleRepo repository.SaleRepository, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{coordinator: coordinator, saleRepo: saleRepo, log: log}
}

// ItemInput una línea de venta.
type ItemInput struct {
	ProductID string
	SizeID    string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// SaleInput entrada para registrar una venta completa.
type SaleInput struct {
	InvoiceNumber string
	CustomerRef   string // opcional
	Items         []ItemInput
	UserID        string
}

// Result venta confirmada con el stock resultante por línea.
type Result struct {
	Sale  *entity.Sale
	Items []*entity.SaleItem
	Rows  []ledger.RowResult
}

// SubmitSale valida las líneas, arma el lote de deltas negativos y lo envía al
// coordinador; la venta (cabecera + líneas) se persiste dentro de la misma
// transacción que el stock y el historial. Dos líneas sobre la misma talla se
// coalescen para el chequeo de invariante pero conservan su propia entrada de
// historial.
func (uc *UseCase) SubmitSale(ctx context.Context, input SaleInput) (*Result, error) {
	if input.InvoiceNumber == "" || len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range input.Items {
		if it.ProductID == "" || it.SizeID == "" || it.Quantity <= 0 || it.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	saleID := uuid.New().String()
	total := decimal.Zero
	items := make([]*entity.SaleItem, len(input.Items))
	rows := make([]ledger.Row, len(input.Items))

	for i, it := range input.Items {
		subtotal := it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
		items[i] = &entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    saleID,
			Position:  i,
			ProductID: it.ProductID,
			SizeID:    it.SizeID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  subtotal,
		}
		total = total.Add(subtotal)
		rows[i] = ledger.Row{ProductID: it.ProductID, SizeID: it.SizeID, Delta: -it.Quantity}
	}

	sale := &entity.Sale{
		ID:            saleID,
		InvoiceNumber: input.InvoiceNumber,
		CustomerRef:   input.CustomerRef,
		Total:         total,
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     input.UserID,
	}

	ref := ledger.Reference{Type: "sale", ID: saleID}
	results, err := uc.coordinator.SubmitWith(ctx, entity.ReasonSale, ref, input.UserID, rows,
		func(ctx context.Context, r ledger.Repos) error {
			if err := r.Sales.Create(ctx, sale, items); err != nil {
				return &domain.PersistenceError{Op: "crear venta", Err: err}
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("sale_id", saleID).Str("invoice", input.InvoiceNumber).Int("items", len(items)).Msg("venta registrada")
	return &Result{Sale: sale, Items: items, Rows: results}, nil
}

// GetSale devuelve una venta con sus líneas.
func (uc *UseCase) GetSale(ctx context.Context, id string) (*entity.Sale, []*entity.SaleItem, error) {
	sale, items, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if sale == nil {
		return nil, nil, domain.ErrNotFound
	}
	return sale, items, nil
}

// ListSales lista ventas en un rango de fechas.
func (uc *UseCase) ListSales(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	return uc.saleRepo.List(ctx, from, to, limit, offset)
}
