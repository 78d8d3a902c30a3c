package reports

import (
	"context"
	"time"

	"github.com/jhoicas/ledger-api/internal/application/ledger"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/jhoicas/ledger-api/pkg/logger"
)

// UseCase consultas de solo lectura sobre historial y stock para reportería.
// Se apoya en el invariante de replay: sumando los deltas del historial hasta
// un instante se reconstruye el stock en ese punto del tiempo.
type UseCase struct {
	stockRepo   repository.StockRepository
	historyRepo repository.HistoryRepository
	threshold   int64
	log         *logger.Logger
}

// NewUseCase construye el caso de uso de reportes. threshold es el umbral T
// usado por el listado de stock bajo.
func NewUseCase(stockRepo repository.StockRepository, historyRepo repository.HistoryRepository, threshold int64, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{stockRepo: stockRepo, historyRepo: historyRepo, threshold: threshold, log: log}
}

// Movements lista movimientos del período, más recientes primero.
func (uc *UseCase) Movements(ctx context.Context, from, to time.Time, limit, offset int) ([]*entity.HistoryEntry, error) {
	return uc.historyRepo.ListPeriod(ctx, from, to, limit, offset)
}

// RowHistory devuelve el historial de una fila en orden de registro ascendente.
func (uc *UseCase) RowHistory(ctx context.Context, productID, sizeID string, limit, offset int) ([]*entity.HistoryEntry, error) {
	return uc.historyRepo.ListByProductSize(ctx, productID, sizeID, limit, offset)
}

// StockAt reconstruye el stock de una fila en un instante dado sumando los
// deltas del historial hasta ese punto (replay desde cero).
func (uc *UseCase) StockAt(ctx context.Context, productID, sizeID string, at time.Time) (int64, error) {
	return uc.historyRepo.SumDeltasUntil(ctx, productID, sizeID, at)
}

// Row devuelve el stock actual de una fila; cero si nunca tuvo movimientos.
func (uc *UseCase) Row(ctx context.Context, productID, sizeID string) (*entity.StockRecord, error) {
	return uc.stockRepo.Get(ctx, productID, sizeID)
}

// CurrentStock lista el stock actual paginado.
func (uc *UseCase) CurrentStock(ctx context.Context, limit, offset int) ([]*entity.StockRecord, error) {
	return uc.stockRepo.List(ctx, limit, offset)
}

// LowStock lista las filas por debajo del umbral configurado.
func (uc *UseCase) LowStock(ctx context.Context) ([]*entity.StockRecord, error) {
	return uc.stockRepo.ListBelowThreshold(ctx, uc.threshold)
}

// PeriodSummary agrega unidades y lotes por razón en el período (día/semana/mes
// según el rango que pase el caller).
func (uc *UseCase) PeriodSummary(ctx context.Context, from, to time.Time) ([]repository.ReasonTotal, error) {
	return uc.historyRepo.SumByReason(ctx, from, to)
}

// ReplayReport resultado de verificar el invariante de replay sobre una fila.
type ReplayReport struct {
	ProductID string `json:"product_id"`
	SizeID    string `json:"size_id"`
	Expected  int64  `json:"expected"` // suma de deltas del historial
	Actual    int64  `json:"actual"`   // stock actual registrado
	Consistent bool  `json:"consistent"`
	Detail    string `json:"detail,omitempty"`
}

// VerifyReplay comprueba que el historial completo de una fila encadena como
// suma prefija y que su total coincide con el stock actual.
func (uc *UseCase) VerifyReplay(ctx context.Context, productID, sizeID string) (*ReplayReport, error) {
	entries, err := uc.historyRepo.ListByProductSize(ctx, productID, sizeID, 0, 0)
	if err != nil {
		return nil, err
	}
	record, err := uc.stockRepo.Get(ctx, productID, sizeID)
	if err != nil {
		return nil, err
	}

	report := &ReplayReport{
		ProductID: productID,
		SizeID:    sizeID,
		Expected:  ledger.Replay(entries),
		Actual:    record.Quantity,
	}
	if err := ledger.VerifyTrail(entries); err != nil {
		report.Detail = err.Error()
		return report, nil
	}
	report.Consistent = report.Expected == report.Actual
	if !report.Consistent {
		report.Detail = "la suma del historial no coincide con el stock actual"
	}
	return report, nil
}
