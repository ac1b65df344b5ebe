package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Juman-Kalita/Slab/internal/domain/catalogs/customer"
	"github.com/Juman-Kalita/Slab/internal/domain/rental"
	"github.com/Juman-Kalita/Slab/internal/domain/reports"
	"github.com/Juman-Kalita/Slab/internal/infrastructure/http/v1/dto"
)

// CustomerHandler handles customer catalog and per-site billing endpoints.
type CustomerHandler struct {
	*BaseHandler
	customers *customer.Service
	rentals   *rental.Service
	reports   *reports.Service
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(base *BaseHandler, customers *customer.Service, rentals *rental.Service, reportsSvc *reports.Service) *CustomerHandler {
	return &CustomerHandler{
		BaseHandler: base,
		customers:   customers,
		rentals:     rentals,
		reports:     reportsSvc,
	}
}

// List handles GET /customers
func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.CustomerResponse, len(customers))
	for i, cust := range customers {
		items[i] = dto.FromCustomer(cust)
	}
	h.OK(c, dto.ListResponse{Items: items})
}

// Get handles GET /customers/:id
// Returns the customer with all sites, their breakdowns and the total due.
func (h *CustomerHandler) Get(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	summary, err := h.reports.CustomerSummary(c.Request.Context(), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}

// Rent handles GET /customers/:id/sites/:siteId/rent
func (h *CustomerHandler) Rent(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	siteID, ok := h.ParseID(c, "siteId")
	if !ok {
		return
	}

	breakdown, err := h.rentals.GetRent(c.Request.Context(), customerID, siteID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, breakdown)
}

// History handles GET /customers/:id/sites/:siteId/history
func (h *CustomerHandler) History(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	siteID, ok := h.ParseID(c, "siteId")
	if !ok {
		return
	}

	events, err := h.rentals.History(c.Request.Context(), customerID, siteID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: events})
}

// RegisterRoutes registers customer routes.
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/sites/:siteId/rent", h.Rent)
	rg.GET("/:id/sites/:siteId/history", h.History)
}
