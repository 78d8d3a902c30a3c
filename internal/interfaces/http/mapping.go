package http

import (
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/ledger"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

func toStockRows(rows []ledger.RowResult) []dto.StockRowDTO {
	out := make([]dto.StockRowDTO, len(rows))
	for i, r := range rows {
		out[i] = dto.StockRowDTO{
			ProductID: r.ProductID,
			SizeID:    r.SizeID,
			Previous:  r.Previous,
			New:       r.New,
		}
	}
	return out
}

func toOrderResponse(order *entity.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:          order.ID,
		Reference:   order.Reference,
		Status:      order.Status,
		TotalCost:   order.TotalCost,
		CreatedAt:   order.CreatedAt,
		ArrivalDate: order.ArrivalDate,
	}
	for _, it := range order.Items {
		resp.Items = append(resp.Items, dto.OrderItemDTO{
			ProductID: it.ProductID,
			SizeID:    it.SizeID,
			Quantity:  it.Quantity,
			UnitCost:  it.UnitCost,
			Subtotal:  it.Subtotal,
		})
	}
	return resp
}

func toHistoryDTOs(entries []*entity.HistoryEntry) []dto.HistoryEntryDTO {
	out := make([]dto.HistoryEntryDTO, len(entries))
	for i, e := range entries {
		out[i] = dto.HistoryEntryDTO{
			ID:            e.ID,
			BatchID:       e.BatchID,
			ProductID:     e.ProductID,
			SizeID:        e.SizeID,
			PreviousStock: e.PreviousStock,
			NewStock:      e.NewStock,
			Delta:         e.Delta,
			Reason:        e.Reason,
			ReferenceType: e.ReferenceType,
			ReferenceID:   e.ReferenceID,
			Actor:         e.Actor,
			RecordedAt:    e.RecordedAt,
		}
	}
	return out
}

func toStockRecordDTOs(records []*entity.StockRecord) []dto.StockRecordDTO {
	out := make([]dto.StockRecordDTO, len(records))
	for i, r := range records {
		out[i] = dto.StockRecordDTO{
			ProductID: r.ProductID,
			SizeID:    r.SizeID,
			Quantity:  r.Quantity,
			UpdatedAt: r.UpdatedAt,
		}
	}
	return out
}
