package dto

// ErrorResponse respuesta de error estándar de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StockRowDTO stock confirmado de una fila tras aplicar un lote.
type StockRowDTO struct {
	ProductID string `json:"product_id"`
	SizeID    string `json:"size_id"`
	Previous  int64  `json:"previous"`
	New       int64  `json:"new"`
}

// InsufficientStockResponse detalle de un lote rechazado por stock insuficiente.
type InsufficientStockResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	ProductID string `json:"product_id"`
	SizeID    string `json:"size_id"`
	Requested int64  `json:"requested"`
	Available int64  `json:"available"`
}
