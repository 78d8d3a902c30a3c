package dto

import "github.com/shopspring/decimal"

// SaleItemRequest una línea de venta.
type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	SizeID    string          `json:"size_id" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest entrada para registrar una venta completa.
type CreateSaleRequest struct {
	InvoiceNumber string            `json:"invoice_number" validate:"required"`
	CustomerRef   string            `json:"customer_ref"`
	Actor         string            `json:"actor" validate:"required"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleResponse venta confirmada con el stock resultante por línea.
type SaleResponse struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Total         decimal.Decimal `json:"total"`
	Rows          []StockRowDTO   `json:"rows"`
}
