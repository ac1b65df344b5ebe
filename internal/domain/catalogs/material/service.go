package material

import (
	"context"
	"fmt"

	"github.com/Juman-Kalita/Slab/internal/core/apperror"
	"github.com/Juman-Kalita/Slab/pkg/logger"
)

// Service provides business logic for the material catalog.
type Service struct {
	repo Repository
}

// NewService creates a new material catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns a material by slug.
func (s *Service) Get(ctx context.Context, id string) (*Material, error) {
	if id == "" {
		return nil, apperror.NewValidation("material id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// Resolve loads materials for a set of slugs and fails on any unknown slug.
// Issue and return operations use this to validate their line items up front.
func (s *Service) Resolve(ctx context.Context, ids []string) (map[string]*Material, error) {
	found, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve materials: %w", err)
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, apperror.NewNotFound("material", id)
		}
	}
	return found, nil
}

// List returns the full catalog.
func (s *Service) List(ctx context.Context) ([]*Material, error) {
	return s.repo.List(ctx)
}

// ListGrouped returns the catalog grouped by category, preserving the
// repository's category order.
func (s *Service) ListGrouped(ctx context.Context) ([]CategoryGroup, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var groups []CategoryGroup
	index := make(map[string]int)
	for _, m := range all {
		i, ok := index[m.Category]
		if !ok {
			i = len(groups)
			index[m.Category] = i
			groups = append(groups, CategoryGroup{Category: m.Category})
		}
		groups[i].Materials = append(groups[i].Materials, m)
	}
	return groups, nil
}

// CategoryGroup is a display grouping of the catalog.
type CategoryGroup struct {
	Category  string      `json:"category"`
	Materials []*Material `json:"materials"`
}

// SeedDefaults upserts the built-in catalog. Safe to run repeatedly.
func (s *Service) SeedDefaults(ctx context.Context) error {
	entries := SeedCatalog()
	for i := range entries {
		m := entries[i].Material
		if err := m.Validate(ctx); err != nil {
			return fmt.Errorf("seed entry %s: %w", m.ID, err)
		}
		if err := s.repo.Upsert(ctx, &m); err != nil {
			return fmt.Errorf("upsert %s: %w", m.ID, err)
		}
	}

	logger.Info(ctx, "seeded material catalog", "count", len(entries))
	return nil
}
