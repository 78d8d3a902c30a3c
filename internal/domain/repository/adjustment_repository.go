package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// AdjustmentRepository define el puerto de persistencia para ajustes manuales y devoluciones.
type AdjustmentRepository interface {
	Create(ctx context.Context, adjustment *entity.Adjustment) error
	GetByID(ctx context.Context, id string) (*entity.Adjustment, error)
	List(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Adjustment, error)
}
