package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ledger-api/internal/application/adjustments"
	"github.com/jhoicas/ledger-api/internal/application/dto"
)

// AdjustmentHandler maneja ajustes manuales y devoluciones.
type AdjustmentHandler struct {
	uc *adjustments.UseCase
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(uc *adjustments.UseCase) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc}
}

// Create godoc
// @Summary      Aplicar un ajuste manual o una devolución
// @Description  Aplica todas las entradas como un solo lote atómico. Las
//               devoluciones (kind=return) exigen deltas positivos y sale_ref.
// @Tags         adjustments
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "kind, actor, entries"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Router       /api/adjustments [post]
func (h *AdjustmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
	if ok, resp := parseBody(c, &in); !ok {
		return resp
	}

	entries := make([]adjustments.EntryInput, len(in.Entries))
	for i, e := range in.Entries {
		entries[i] = adjustments.EntryInput{
			ProductID: e.ProductID,
			SizeID:    e.SizeID,
			Delta:     e.Delta,
			Reason:    e.Reason,
		}
	}

	result, err := h.uc.Submit(c.Context(), adjustments.Input{
		Kind:    in.Kind,
		SaleRef: in.SaleRef,
		Entries: entries,
		UserID:  in.Actor,
	})
	if err != nil {
		return writeDomainError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.AdjustmentResponse{
		ID:   result.Adjustment.ID,
		Kind: result.Adjustment.Kind,
		Rows: toStockRows(result.Rows),
	})
}

// GetByID godoc
// @Summary      Consultar un ajuste
// @Tags         adjustments
// @Produce      json
// @Param        id  path  string  true  "ID del ajuste"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id} [get]
func (h *AdjustmentHandler) GetByID(c *fiber.Ctx) error {
	adj, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(adj)
}

// List godoc
// @Summary      Listar ajustes
// @Tags         adjustments
// @Produce      json
// @Param        from    query  string  false  "Fecha inicial (RFC3339)"
// @Param        to      query  string  false  "Fecha final (RFC3339)"
// @Param        limit   query  int     false  "Límite (default 50)"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {object}  map[string]any
// @Router       /api/adjustments [get]
func (h *AdjustmentHandler) List(c *fiber.Ctx) error {
	from, to := parseRange(c)
	list, err := h.uc.List(c.Context(), from, to, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "adjustments": list})
}
