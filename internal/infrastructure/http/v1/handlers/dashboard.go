package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Juman-Kalita/Slab/internal/domain/reports"
)

// DashboardHandler handles the front-page summary endpoint.
type DashboardHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(base *BaseHandler, service *reports.Service) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Stats handles GET /dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, stats)
}

// RegisterRoutes registers dashboard routes.
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.Stats)
}
