// Package stock provides the yard stock register.
// It tracks a single available-quantity counter per material type:
// issues draw it down, returns credit it back, lost items never do.
package stock

import (
	"time"

	"github.com/Juman-Kalita/Slab/internal/core/types"
)

// Balance is the current available quantity for a material type.
type Balance struct {
	MaterialTypeID string         `db:"material_type_id" json:"materialTypeId"`
	Quantity       types.Quantity `db:"quantity" json:"quantity"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
}
