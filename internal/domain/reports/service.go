// Package reports aggregates billing data for the dashboard and
// per-customer summaries.
package reports

import (
	"context"

	"github.com/Juman-Kalita/Slab/internal/core/id"
	"github.com/Juman-Kalita/Slab/internal/core/types"
	"github.com/Juman-Kalita/Slab/internal/domain/catalogs/customer"
	"github.com/Juman-Kalita/Slab/internal/domain/rental"
)

// Service computes report aggregates.
type Service struct {
	customers *customer.Service
	rentals   *rental.Service
}

// NewService creates a new reports service.
func NewService(customers *customer.Service, rentals *rental.Service) *Service {
	return &Service{
		customers: customers,
		rentals:   rentals,
	}
}

// DashboardStats is the front-page summary.
type DashboardStats struct {
	// TotalCustomers counts customers with at least one item still out
	TotalCustomers int `json:"totalCustomers"`

	// TotalItemsRented is the sum of quantities currently at sites
	TotalItemsRented int64 `json:"totalItemsRented"`

	// TotalPendingAmount is the sum of remaining dues across all sites
	TotalPendingAmount types.Money `json:"totalPendingAmount"`
}

// Dashboard computes current stats across all customers and sites.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	sites, err := s.rentals.AllSites(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{TotalPendingAmount: types.Zero()}
	activeCustomers := make(map[id.ID]bool)

	for _, sw := range sites {
		for _, line := range sw.Breakdown.Materials {
			if line.Quantity.IsPositive() {
				activeCustomers[sw.Site.CustomerID] = true
				stats.TotalItemsRented += line.Quantity.Int64()
			}
		}
		stats.TotalPendingAmount = stats.TotalPendingAmount.Add(sw.Breakdown.RemainingDue)
	}

	stats.TotalCustomers = len(activeCustomers)
	return stats, nil
}

// CustomerSummary is a customer with per-site breakdowns and the total due.
type CustomerSummary struct {
	Customer        *customer.Customer    `json:"customer"`
	Sites           []rental.SiteWithRent `json:"sites"`
	TotalPendingDue types.Money           `json:"totalPendingDue"`
}

// CustomerSummary aggregates one customer's sites and dues.
func (s *Service) CustomerSummary(ctx context.Context, customerID id.ID) (*CustomerSummary, error) {
	cust, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	sites, err := s.rentals.CustomerSites(ctx, customerID)
	if err != nil {
		return nil, err
	}

	total := types.Zero()
	for _, sw := range sites {
		total = total.Add(sw.Breakdown.RemainingDue)
	}

	return &CustomerSummary{
		Customer:        cust,
		Sites:           sites,
		TotalPendingDue: total,
	}, nil
}
