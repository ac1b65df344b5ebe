// Package rental_repo provides the PostgreSQL implementation of the rental
// repository: sites, holdings and the append-only site history.
package rental_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Juman-Kalita/Slab/internal/core/apperror"
	"github.com/Juman-Kalita/Slab/internal/core/id"
	"github.com/Juman-Kalita/Slab/internal/domain/rental"
	"github.com/Juman-Kalita/Slab/internal/infrastructure/storage/postgres"
)

const (
	sitesTable    = "sites"
	holdingsTable = "site_holdings"
	historyTable  = "site_history"
)

var siteColumns = postgres.ExtractDBColumns[rental.Site]()

// Compile-time check.
var _ rental.Repository = (*Repo)(nil)

// Repo implements rental.Repository.
type Repo struct {
	txm     *postgres.TxManager
	batch   *postgres.BatchInserter
	builder squirrel.StatementBuilderType
}

// NewRepo creates a new rental repository.
func NewRepo(txm *postgres.TxManager) *Repo {
	return &Repo{
		txm:     txm,
		batch:   postgres.NewBatchInserter(txm),
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *Repo) siteSelect() squirrel.SelectBuilder {
	return r.builder.
		Select(siteColumns...).
		From(sitesTable)
}

// CreateSite inserts a new site.
func (r *Repo) CreateSite(ctx context.Context, s *rental.Site) error {
	data := postgres.StructToMap(s)

	q := r.builder.
		Insert(sitesTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert site: %w", err)
	}
	return nil
}

// UpdateSite saves site changes with optimistic locking.
func (r *Repo) UpdateSite(ctx context.Context, s *rental.Site) error {
	data := postgres.StructToMap(s)
	delete(data, "id")
	delete(data, "version")

	q := r.builder.
		Update(sitesTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": s.ID}).
		Where(squirrel.Eq{"version": s.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update site: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConflict("concurrent modification").
			WithDetail("entity", sitesTable).
			WithDetail("id", s.ID.String())
	}

	s.SetVersion(s.Version + 1)
	return nil
}

// GetSite returns a site by ID.
func (r *Repo) GetSite(ctx context.Context, siteID id.ID) (*rental.Site, error) {
	q := r.siteSelect().
		Where(squirrel.Eq{"id": siteID}).
		Limit(1)

	return r.findSite(ctx, q, siteID.String())
}

// GetSiteForUpdate returns a site with a row lock.
func (r *Repo) GetSiteForUpdate(ctx context.Context, siteID id.ID) (*rental.Site, error) {
	q := r.siteSelect().
		Where(squirrel.Eq{"id": siteID}).
		Suffix("FOR UPDATE")

	return r.findSite(ctx, q, siteID.String())
}

// FindSiteByName returns a customer's site by case-insensitive
// siteName+location match.
func (r *Repo) FindSiteByName(ctx context.Context, customerID id.ID, siteName, location string) (*rental.Site, error) {
	q := r.siteSelect().
		Where(squirrel.Eq{"customer_id": customerID}).
		Where(squirrel.Expr("lower(site_name) = lower(?)", siteName)).
		Where(squirrel.Expr("lower(location) = lower(?)", location)).
		Limit(1)

	return r.findSite(ctx, q, siteName)
}

// ListSitesByCustomer returns all sites of a customer, newest first.
func (r *Repo) ListSitesByCustomer(ctx context.Context, customerID id.ID) ([]*rental.Site, error) {
	q := r.siteSelect().
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("created_at DESC")

	return r.selectSites(ctx, q)
}

// ListSites returns all sites (dashboard aggregation).
func (r *Repo) ListSites(ctx context.Context) ([]*rental.Site, error) {
	q := r.siteSelect().
		OrderBy("created_at DESC")

	return r.selectSites(ctx, q)
}

func (r *Repo) findSite(ctx context.Context, q squirrel.SelectBuilder, key string) (*rental.Site, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s rental.Site
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("site", key)
		}
		return nil, fmt.Errorf("get site: %w", err)
	}
	return &s, nil
}

func (r *Repo) selectSites(ctx context.Context, q squirrel.SelectBuilder) ([]*rental.Site, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sites []*rental.Site
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &sites, sql, args...); err != nil {
		return nil, fmt.Errorf("select sites: %w", err)
	}
	return sites, nil
}
