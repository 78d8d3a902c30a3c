package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/sales"
)

// SaleHandler maneja las peticiones HTTP de ventas.
type SaleHandler struct {
	uc *sales.UseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar una venta
// @Description  Descuenta stock y persiste la venta atómicamente. Si alguna
//               línea dejaría stock negativo, no se crea nada (409).
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "invoice_number, actor, items"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if ok, resp := parseBody(c, &in); !ok {
		return resp
	}

	items := make([]sales.ItemInput, len(in.Items))
	for i, it := range in.Items {
		items[i] = sales.ItemInput{
			ProductID: it.ProductID,
			SizeID:    it.SizeID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}

	result, err := h.uc.SubmitSale(c.Context(), sales.SaleInput{
		InvoiceNumber: in.InvoiceNumber,
		CustomerRef:   in.CustomerRef,
		Items:         items,
		UserID:        in.Actor,
	})
	if err != nil {
		return writeDomainError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SaleResponse{
		ID:            result.Sale.ID,
		InvoiceNumber: result.Sale.InvoiceNumber,
		Total:         result.Sale.Total,
		Rows:          toStockRows(result.Rows),
	})
}

// GetByID godoc
// @Summary      Consultar una venta
// @Tags         sales
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, items, err := h.uc.GetSale(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"sale": sale, "items": items})
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Produce      json
// @Param        from    query  string  false  "Fecha inicial (RFC3339)"
// @Param        to      query  string  false  "Fecha final (RFC3339)"
// @Param        limit   query  int     false  "Límite (default 50)"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {object}  map[string]any
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	from, to := parseRange(c)
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	list, err := h.uc.ListSales(c.Context(), from, to, limit, offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "sales": list})
}

// parseRange lee from/to en RFC3339 de la query; nil si no vienen.
func parseRange(c *fiber.Ctx) (*time.Time, *time.Time) {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			from = &t
		}
	}
	if s := c.Query("to"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			to = &t
		}
	}
	return from, to
}
