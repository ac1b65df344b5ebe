package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Juman-Kalita/Slab/internal/domain/registers/stock"
	"github.com/Juman-Kalita/Slab/internal/infrastructure/http/v1/dto"
)

// StockHandler handles the yard stock register endpoints.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /stock
func (h *StockHandler) List(c *gin.Context) {
	balances, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StockBalanceResponse, len(balances))
	for i, b := range balances {
		items[i] = dto.FromStockBalance(b)
	}
	h.OK(c, dto.ListResponse{Items: items})
}

// Set handles PUT /stock/:materialId (restock/correction)
func (h *StockHandler) Set(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SetStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	materialID := c.Param("materialId")
	if err := h.service.Set(ctx, materialID, req.Quantity); err != nil {
		h.Error(c, err)
		return
	}

	qty, err := h.service.Available(ctx, materialID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"materialTypeId": materialID, "quantity": qty})
}

// RegisterRoutes registers stock register routes.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.PUT("/:materialId", h.Set)
}
