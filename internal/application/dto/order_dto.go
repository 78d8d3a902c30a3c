package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest una línea de la orden de compra.
type OrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	SizeID    string          `json:"size_id" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreateOrderRequest entrada para crear una orden de compra en pending.
type CreateOrderRequest struct {
	Reference string             `json:"reference" validate:"required"`
	Actor     string             `json:"actor" validate:"required"`
	Items     []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderItemsRequest reemplazo de líneas de una orden en pending.
type UpdateOrderItemsRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CompleteOrderRequest entrada para completar una orden.
type CompleteOrderRequest struct {
	Actor string `json:"actor" validate:"required"`
}

// OrderItemDTO línea de orden en respuestas.
type OrderItemDTO struct {
	ProductID string          `json:"product_id"`
	SizeID    string          `json:"size_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse una orden con sus líneas.
type OrderResponse struct {
	ID          string          `json:"id"`
	Reference   string          `json:"reference"`
	Status      string          `json:"status"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	CreatedAt   time.Time       `json:"created_at"`
	ArrivalDate *time.Time      `json:"arrival_date,omitempty"`
	Items       []OrderItemDTO  `json:"items,omitempty"`
}

// CompleteOrderResponse orden completada con el stock resultante por línea.
type CompleteOrderResponse struct {
	Order OrderResponse `json:"order"`
	Rows  []StockRowDTO `json:"rows"`
}
