package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Juman-Kalita/Slab/internal/core/apperror"
	"github.com/Juman-Kalita/Slab/internal/core/id"
	"github.com/Juman-Kalita/Slab/internal/domain/rental"
	"github.com/Juman-Kalita/Slab/internal/infrastructure/http/v1/dto"
)

// RentalHandler handles issue, return and payment endpoints.
type RentalHandler struct {
	*BaseHandler
	service *rental.Service
}

// NewRentalHandler creates a new rental handler.
func NewRentalHandler(base *BaseHandler, service *rental.Service) *RentalHandler {
	return &RentalHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Issue handles POST /rentals/issue
func (h *RentalHandler) Issue(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.IssueRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Issue(ctx, req.ToServiceRequest())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Return handles POST /rentals/return
func (h *RentalHandler) Return(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customerID, siteID, ok := h.parseIDs(c, req.CustomerID, req.SiteID)
	if !ok {
		return
	}

	err := h.service.Return(ctx, rental.ReturnRequest{
		CustomerID:       customerID,
		SiteID:           siteID,
		MaterialTypeID:   req.MaterialTypeID,
		QuantityReturned: req.QuantityReturned,
		QuantityLost:     req.QuantityLost,
		HasOwnLabor:      req.HasOwnLabor,
		ReturnDate:       req.ReturnDate,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "return recorded")
}

// Payment handles POST /rentals/payments
func (h *RentalHandler) Payment(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customerID, siteID, ok := h.parseIDs(c, req.CustomerID, req.SiteID)
	if !ok {
		return
	}

	var paymentDate time.Time
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	result, err := h.service.RecordPayment(ctx, rental.PaymentRequest{
		CustomerID:    customerID,
		SiteID:        siteID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaymentDate:   paymentDate,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

func (h *RentalHandler) parseIDs(c *gin.Context, customerID, siteID string) (id.ID, id.ID, bool) {
	cid, err := id.Parse(customerID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid customerId format"))
		return id.Nil(), id.Nil(), false
	}
	sid, err := id.Parse(siteID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid siteId format"))
		return id.Nil(), id.Nil(), false
	}
	return cid, sid, true
}

// RegisterRoutes registers rental operation routes.
func (h *RentalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/issue", h.Issue)
	rg.POST("/return", h.Return)
	rg.POST("/payments", h.Payment)
}
