package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Juman-Kalita/Slab/internal/domain/auth"
	"github.com/Juman-Kalita/Slab/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	token, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.LoginResponse{Token: token})
}

// RegisterRoutes registers auth routes.
func (h *AuthHandler) RegisterRoutes(public *gin.RouterGroup) {
	public.POST("/login", h.Login)
}
