package rental_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Juman-Kalita/Slab/internal/core/apperror"
	"github.com/Juman-Kalita/Slab/internal/core/id"
	"github.com/Juman-Kalita/Slab/internal/domain/rental"
)

var holdingColumns = []string{
	"site_id", "material_type_id", "quantity", "initial_quantity",
	"issue_date", "has_own_labor",
}

// GetHolding returns one holding row.
func (r *Repo) GetHolding(ctx context.Context, siteID id.ID, materialTypeID string) (*rental.Holding, error) {
	q := r.builder.
		Select(holdingColumns...).
		From(holdingsTable).
		Where(squirrel.Eq{"site_id": siteID, "material_type_id": materialTypeID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var h rental.Holding
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &h, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("holding", materialTypeID)
		}
		return nil, fmt.Errorf("get holding: %w", err)
	}
	return &h, nil
}

// ListHoldings returns all holdings of a site, including zero-quantity rows.
// Zero rows stay: initial_quantity drives the overdue penalty even after a
// full return.
func (r *Repo) ListHoldings(ctx context.Context, siteID id.ID) ([]rental.Holding, error) {
	q := r.builder.
		Select(holdingColumns...).
		From(holdingsTable).
		Where(squirrel.Eq{"site_id": siteID}).
		OrderBy("material_type_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var holdings []rental.Holding
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &holdings, sql, args...); err != nil {
		return nil, fmt.Errorf("select holdings: %w", err)
	}
	return holdings, nil
}

// UpsertHolding inserts or replaces a holding row.
func (r *Repo) UpsertHolding(ctx context.Context, h *rental.Holding) error {
	sql := `
		INSERT INTO site_holdings
			(site_id, material_type_id, quantity, initial_quantity, issue_date, has_own_labor)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (site_id, material_type_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			initial_quantity = EXCLUDED.initial_quantity,
			issue_date = EXCLUDED.issue_date,
			has_own_labor = EXCLUDED.has_own_labor
	`
	querier := r.txm.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		h.SiteID, h.MaterialTypeID, h.Quantity.Int64(), h.InitialQuantity.Int64(),
		h.IssueDate, h.HasOwnLabor,
	)
	if err != nil {
		return fmt.Errorf("upsert holding: %w", err)
	}
	return nil
}

// ResetInitialQuantities sets initial_quantity := quantity for every holding
// of the site. Runs at cycle settlement.
func (r *Repo) ResetInitialQuantities(ctx context.Context, siteID id.ID) error {
	sql := `
		UPDATE site_holdings
		SET initial_quantity = quantity
		WHERE site_id = $1
	`
	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, siteID); err != nil {
		return fmt.Errorf("reset initial quantities: %w", err)
	}
	return nil
}
