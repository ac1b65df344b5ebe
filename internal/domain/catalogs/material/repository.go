package material

import (
	"context"
)

// Repository defines storage operations for the material catalog.
type Repository interface {
	// GetByID returns a material by slug, NotFound error if absent.
	GetByID(ctx context.Context, id string) (*Material, error)

	// GetByIDs returns materials for a set of slugs, keyed by slug.
	// Missing slugs are simply absent from the map.
	GetByIDs(ctx context.Context, ids []string) (map[string]*Material, error)

	// List returns the full catalog ordered by category then name.
	List(ctx context.Context) ([]*Material, error)

	// Upsert inserts or updates a material (used by seeding).
	Upsert(ctx context.Context, m *Material) error
}
