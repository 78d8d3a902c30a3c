package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/reports"
)

// ReportHandler reportería de movimientos, stock bajo y verificación de replay.
type ReportHandler struct {
	uc *reports.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// periodOrDefault resuelve from/to de la query; sin parámetros devuelve el día
// en curso.
func periodOrDefault(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := now
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return from, to, err
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return from, to, err
		}
		to = t
	}
	return from, to, nil
}

// Movements godoc
// @Summary      Movimientos del período
// @Tags         reports
// @Produce      json
// @Param        from    query  string  false  "Fecha inicial (RFC3339, default hoy 00:00)"
// @Param        to      query  string  false  "Fecha final (RFC3339, default ahora)"
// @Param        limit   query  int     false  "Límite (default 100)"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/movements [get]
func (h *ReportHandler) Movements(c *fiber.Ctx) error {
	from, to, err := periodOrDefault(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida, usar RFC3339"})
	}
	entries, err := h.uc.Movements(c.Context(), from, to, c.QueryInt("limit", 100), c.QueryInt("offset", 0))
	if err != nil {
		return writeDomainError(c, err)
	}
	movements := toHistoryDTOs(entries)
	return c.JSON(fiber.Map{"from": from, "to": to, "total": len(movements), "movements": movements})
}

// Summary godoc
// @Summary      Resumen del período agrupado por razón
// @Tags         reports
// @Produce      json
// @Param        from  query  string  false  "Fecha inicial (RFC3339, default hoy 00:00)"
// @Param        to    query  string  false  "Fecha final (RFC3339, default ahora)"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	from, to, err := periodOrDefault(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida, usar RFC3339"})
	}
	totals, err := h.uc.PeriodSummary(c.Context(), from, to)
	if err != nil {
		return writeDomainError(c, err)
	}
	resp := make([]dto.ReasonTotalDTO, len(totals))
	for i, t := range totals {
		resp[i] = dto.ReasonTotalDTO{Reason: t.Reason, Units: t.Units, Entries: t.Entries, Batches: t.Batches}
	}
	return c.JSON(fiber.Map{"from": from, "to": to, "totals": resp})
}

// StockAt godoc
// @Summary      Stock de una fila en un instante pasado
// @Description  Reconstruye el stock sumando los deltas del historial hasta el
//               instante pedido.
// @Tags         reports
// @Produce      json
// @Param        product_id  query  string  true  "ID del producto"
// @Param        size_id     query  string  true  "ID de la talla"
// @Param        at          query  string  true  "Instante (RFC3339)"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/stock-at [get]
func (h *ReportHandler) StockAt(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	sizeID := c.Query("size_id")
	at, err := time.Parse(time.RFC3339, c.Query("at"))
	if productID == "" || sizeID == "" || err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id, size_id y at (RFC3339) son obligatorios"})
	}
	qty, err := h.uc.StockAt(c.Context(), productID, sizeID, at)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"product_id": productID, "size_id": sizeID, "at": at, "quantity": qty})
}

// LowStock godoc
// @Summary      Filas por debajo del umbral configurado
// @Tags         reports
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	records, err := h.uc.LowStock(c.Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	rows := toStockRecordDTOs(records)
	return c.JSON(fiber.Map{"total": len(rows), "stock": rows})
}

// VerifyReplay godoc
// @Summary      Verificar el invariante de replay de una fila
// @Description  Comprueba que el historial encadena entrada a entrada y que la
//               suma de deltas coincide con el stock actual.
// @Tags         reports
// @Produce      json
// @Param        product_id  query  string  true  "ID del producto"
// @Param        size_id     query  string  true  "ID de la talla"
// @Success      200  {object}  reports.ReplayReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/replay [get]
func (h *ReportHandler) VerifyReplay(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	sizeID := c.Query("size_id")
	if productID == "" || sizeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y size_id son obligatorios"})
	}
	report, err := h.uc.VerifyReplay(c.Context(), productID, sizeID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(report)
}
