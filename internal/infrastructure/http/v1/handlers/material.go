package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Juman-Kalita/Slab/internal/domain/catalogs/material"
	"github.com/Juman-Kalita/Slab/internal/infrastructure/http/v1/dto"
)

// MaterialHandler handles the material catalog endpoints.
type MaterialHandler struct {
	*BaseHandler
	service *material.Service
}

// NewMaterialHandler creates a new material handler.
func NewMaterialHandler(base *BaseHandler, service *material.Service) *MaterialHandler {
	return &MaterialHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /materials
// With ?grouped=true the catalog is returned grouped by category for the
// issue screen dropdowns.
func (h *MaterialHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Query("grouped") == "true" {
		groups, err := h.service.ListGrouped(ctx)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.ListResponse{Items: groups})
		return
	}

	materials, err := h.service.List(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: materials})
}

// Get handles GET /materials/:id
func (h *MaterialHandler) Get(c *gin.Context) {
	m, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, m)
}

// RegisterRoutes registers material catalog routes.
func (h *MaterialHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
}
