package dto

// AdjustmentEntryRequest una corrección por fila con razón de texto libre.
type AdjustmentEntryRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	SizeID    string `json:"size_id" validate:"required"`
	Delta     int64  `json:"delta" validate:"required"`
	Reason    string `json:"reason"`
}

// CreateAdjustmentRequest entrada para aplicar un ajuste o una devolución.
type CreateAdjustmentRequest struct {
	Kind    string                   `json:"kind" validate:"omitempty,oneof=adjustment return"`
	SaleRef string                   `json:"sale_ref"`
	Actor   string                   `json:"actor" validate:"required"`
	Entries []AdjustmentEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

// AdjustmentResponse ajuste confirmado con el stock resultante por línea.
type AdjustmentResponse struct {
	ID   string        `json:"id"`
	Kind string        `json:"kind"`
	Rows []StockRowDTO `json:"rows"`
}
