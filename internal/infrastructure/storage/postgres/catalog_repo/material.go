package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Juman-Kalita/Slab/internal/core/apperror"
	"github.com/Juman-Kalita/Slab/internal/domain/catalogs/material"
	"github.com/Juman-Kalita/Slab/internal/infrastructure/storage/postgres"
)

const materialTable = "cat_materials"

var materialColumns = []string{
	"id", "category", "name", "size",
	"rent_per_day", "loading_charge", "lost_item_penalty", "grace_period_days",
}

// Compile-time check.
var _ material.Repository = (*MaterialRepo)(nil)

// MaterialRepo implements material.Repository.
// Materials are slug-keyed and have no version column: the catalog is
// effectively static and only touched by seeding.
type MaterialRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewMaterialRepo creates a new material repository.
func NewMaterialRepo(txm *postgres.TxManager) *MaterialRepo {
	return &MaterialRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *MaterialRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.
		Select(materialColumns...).
		From(materialTable)
}

// GetByID returns a material by slug.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*material.Material, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": id}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var m material.Material
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("material", id)
		}
		return nil, fmt.Errorf("get material: %w", err)
	}

	return &m, nil
}

// GetByIDs returns materials for a set of slugs, keyed by slug.
func (r *MaterialRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*material.Material, error) {
	result := make(map[string]*material.Material, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"id": ids})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var materials []*material.Material
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &materials, sql, args...); err != nil {
		return nil, fmt.Errorf("select materials: %w", err)
	}

	for _, m := range materials {
		result[m.ID] = m
	}
	return result, nil
}

// List returns the full catalog ordered by category then name.
func (r *MaterialRepo) List(ctx context.Context) ([]*material.Material, error) {
	q := r.baseSelect().
		OrderBy("category", "name", "size")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var materials []*material.Material
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &materials, sql, args...); err != nil {
		return nil, fmt.Errorf("select materials: %w", err)
	}

	return materials, nil
}

// Upsert inserts or updates a material (used by seeding).
func (r *MaterialRepo) Upsert(ctx context.Context, m *material.Material) error {
	sql := `
		INSERT INTO cat_materials
			(id, category, name, size, rent_per_day, loading_charge, lost_item_penalty, grace_period_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			category = EXCLUDED.category,
			name = EXCLUDED.name,
			size = EXCLUDED.size,
			rent_per_day = EXCLUDED.rent_per_day,
			loading_charge = EXCLUDED.loading_charge,
			lost_item_penalty = EXCLUDED.lost_item_penalty,
			grace_period_days = EXCLUDED.grace_period_days
	`
	querier := r.txm.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		m.ID, m.Category, m.Name, m.Size,
		m.RentPerDay, m.LoadingCharge, m.LostItemPenalty, m.GracePeriodDays,
	)
	if err != nil {
		return fmt.Errorf("upsert material %s: %w", m.ID, err)
	}
	return nil
}
