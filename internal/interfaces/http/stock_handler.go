package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/reports"
)

// StockHandler consultas de stock actual e historial por fila.
type StockHandler struct {
	uc *reports.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *reports.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// List godoc
// @Summary      Listar stock actual
// @Tags         stock
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 100)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {object}  map[string]any
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	records, err := h.uc.CurrentStock(c.Context(), c.QueryInt("limit", 100), c.QueryInt("offset", 0))
	if err != nil {
		return writeDomainError(c, err)
	}
	rows := toStockRecordDTOs(records)
	return c.JSON(fiber.Map{"total": len(rows), "stock": rows})
}

// Get godoc
// @Summary      Consultar el stock de una fila (producto, talla)
// @Description  Una fila sin movimientos devuelve cantidad cero, no 404.
// @Tags         stock
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Param        size_id     path  string  true  "ID de la talla"
// @Success      200  {object}  dto.StockRecordDTO
// @Router       /api/stock/{product_id}/{size_id} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	record, err := h.uc.Row(c.Context(), c.Params("product_id"), c.Params("size_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.StockRecordDTO{
		ProductID: record.ProductID,
		SizeID:    record.SizeID,
		Quantity:  record.Quantity,
		UpdatedAt: record.UpdatedAt,
	})
}

// History godoc
// @Summary      Historial de movimientos de una fila
// @Description  Entradas en orden de registro ascendente; cada una lleva el
//               stock previo y el resultante.
// @Tags         stock
// @Produce      json
// @Param        product_id  path   string  true   "ID del producto"
// @Param        size_id     path   string  true   "ID de la talla"
// @Param        limit       query  int     false  "Límite (default 100, 0 = todo)"
// @Param        offset      query  int     false  "Offset"
// @Success      200  {object}  map[string]any
// @Router       /api/stock/{product_id}/{size_id}/history [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	entries, err := h.uc.RowHistory(c.Context(), c.Params("product_id"), c.Params("size_id"), c.QueryInt("limit", 100), c.QueryInt("offset", 0))
	if err != nil {
		return writeDomainError(c, err)
	}
	history := toHistoryDTOs(entries)
	return c.JSON(fiber.Map{"total": len(history), "history": history})
}
