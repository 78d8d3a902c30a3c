package dto

import "time"

// StockRecordDTO stock actual de una fila.
type StockRecordDTO struct {
	ProductID string    `json:"product_id"`
	SizeID    string    `json:"size_id"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HistoryEntryDTO una entrada del historial de stock.
type HistoryEntryDTO struct {
	ID            string    `json:"id"`
	BatchID       string    `json:"batch_id"`
	ProductID     string    `json:"product_id"`
	SizeID        string    `json:"size_id"`
	PreviousStock int64     `json:"previous_stock"`
	NewStock      int64     `json:"new_stock"`
	Delta         int64     `json:"delta"`
	Reason        string    `json:"reason"`
	ReferenceType string    `json:"reference_type"`
	ReferenceID   string    `json:"reference_id"`
	Actor         string    `json:"actor,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// ReasonTotalDTO agregado de movimientos por razón en un período.
type ReasonTotalDTO struct {
	Reason  string `json:"reason"`
	Units   int64  `json:"units"`
	Entries int64  `json:"entries"`
	Batches int64  `json:"batches"`
}
