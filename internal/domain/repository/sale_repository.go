package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas.
// Create persiste cabecera y líneas juntas; la venta es inmutable después.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale, items []*entity.SaleItem) error
	GetByID(ctx context.Context, id string) (*entity.Sale, []*entity.SaleItem, error)
	List(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Sale, error)
}
