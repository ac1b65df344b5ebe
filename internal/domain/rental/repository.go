package rental

import (
	"context"

	"github.com/Juman-Kalita/Slab/internal/core/id"
)

// Repository defines storage operations for sites, holdings and history.
type Repository interface {
	// Sites

	// CreateSite inserts a new site.
	CreateSite(ctx context.Context, s *Site) error

	// UpdateSite saves site changes.
	UpdateSite(ctx context.Context, s *Site) error

	// GetSite returns a site, NotFound error if absent.
	GetSite(ctx context.Context, siteID id.ID) (*Site, error)

	// GetSiteForUpdate returns a site with a row lock.
	// All mutating operations lock the site row for the transaction.
	GetSiteForUpdate(ctx context.Context, siteID id.ID) (*Site, error)

	// FindSiteByName returns a customer's site by case-insensitive
	// siteName+location match, NotFound error if absent.
	FindSiteByName(ctx context.Context, customerID id.ID, siteName, location string) (*Site, error)

	// ListSitesByCustomer returns all sites of a customer.
	ListSitesByCustomer(ctx context.Context, customerID id.ID) ([]*Site, error)

	// ListSites returns all sites (dashboard aggregation).
	ListSites(ctx context.Context) ([]*Site, error)

	// Holdings

	// GetHolding returns one holding, NotFound error if absent.
	GetHolding(ctx context.Context, siteID id.ID, materialTypeID string) (*Holding, error)

	// ListHoldings returns all holdings of a site, including zero-quantity rows.
	ListHoldings(ctx context.Context, siteID id.ID) ([]Holding, error)

	// UpsertHolding inserts or replaces a holding row.
	UpsertHolding(ctx context.Context, h *Holding) error

	// ResetInitialQuantities sets initial_quantity := quantity for every
	// holding of the site (cycle settlement).
	ResetInitialQuantities(ctx context.Context, siteID id.ID) error

	// History

	// AppendEvents appends history events (batch insert, append-only).
	AppendEvents(ctx context.Context, events []HistoryEvent) error

	// ListEvents returns a site's history ordered by date.
	ListEvents(ctx context.Context, siteID id.ID) ([]HistoryEvent, error)
}
