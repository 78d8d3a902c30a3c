package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/orders"
)

// OrderHandler maneja las peticiones HTTP de órdenes de compra a proveedor.
type OrderHandler struct {
	uc *orders.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func toOrderItems(in []dto.OrderItemRequest) []orders.ItemInput {
	items := make([]orders.ItemInput, len(in))
	for i, it := range in {
		items[i] = orders.ItemInput{
			ProductID: it.ProductID,
			SizeID:    it.SizeID,
			Quantity:  it.Quantity,
			UnitCost:  it.UnitCost,
		}
	}
	return items
}

// Create godoc
// @Summary      Crear orden de compra
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "reference, actor, items"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if ok, resp := parseBody(c, &in); !ok {
		return resp
	}

	order, err := h.uc.Create(c.Context(), orders.CreateInput{
		Reference: in.Reference,
		Items:     toOrderItems(in.Items),
		UserID:    in.Actor,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// UpdateItems godoc
// @Summary      Reemplazar líneas de una orden (solo en pending)
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.UpdateOrderItemsRequest  true  "items"
// @Success      200   {object}  dto.OrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/items [put]
func (h *OrderHandler) UpdateItems(c *fiber.Ctx) error {
	var in dto.UpdateOrderItemsRequest
	if ok, resp := parseBody(c, &in); !ok {
		return resp
	}

	order, err := h.uc.UpdateItems(c.Context(), c.Params("id"), toOrderItems(in.Items))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Complete godoc
// @Summary      Completar una orden (pending -> completed)
// @Description  Ingresa el stock de la orden exactamente una vez. Una segunda
//               completación devuelve 409 ALREADY_COMPLETED sin doble crédito.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.CompleteOrderRequest  true  "actor"
// @Success      200   {object}  dto.CompleteOrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/complete [post]
func (h *OrderHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteOrderRequest
	if ok, resp := parseBody(c, &in); !ok {
		return resp
	}

	order, rows, err := h.uc.Complete(c.Context(), c.Params("id"), in.Actor)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.CompleteOrderResponse{
		Order: toOrderResponse(order),
		Rows:  toStockRows(rows),
	})
}

// Cancel godoc
// @Summary      Cancelar una orden (pending -> cancelled)
// @Tags         orders
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(c.Context(), c.Params("id")); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden cancelada"})
}

// GetByID godoc
// @Summary      Consultar una orden
// @Tags         orders
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// List godoc
// @Summary      Listar órdenes
// @Tags         orders
// @Produce      json
// @Param        status  query  string  false  "pending, completed o cancelled"
// @Param        from    query  string  false  "Fecha inicial (RFC3339)"
// @Param        to      query  string  false  "Fecha final (RFC3339)"
// @Param        limit   query  int     false  "Límite (default 50)"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {object}  map[string]any
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	from, to := parseRange(c)
	list, err := h.uc.List(c.Context(), c.Query("status"), from, to, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return writeDomainError(c, err)
	}

	resp := make([]dto.OrderResponse, len(list))
	for i, o := range list {
		resp[i] = toOrderResponse(o)
	}
	return c.JSON(fiber.Map{"total": len(resp), "orders": resp})
}
