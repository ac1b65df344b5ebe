package dto

import (
	"time"

	"github.com/Juman-Kalita/Slab/internal/core/types"
	"github.com/Juman-Kalita/Slab/internal/domain/registers/stock"
)

// StockBalanceResponse is one row of the yard stock register.
type StockBalanceResponse struct {
	MaterialTypeID string         `json:"materialTypeId"`
	Quantity       types.Quantity `json:"quantity"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// FromStockBalance maps a register balance.
func FromStockBalance(b stock.Balance) StockBalanceResponse {
	return StockBalanceResponse{
		MaterialTypeID: b.MaterialTypeID,
		Quantity:       b.Quantity,
		UpdatedAt:      b.UpdatedAt,
	}
}

// SetStockRequest overrides the absolute quantity (restock/correction).
type SetStockRequest struct {
	Quantity types.Quantity `json:"quantity" binding:"min=0"`
}
