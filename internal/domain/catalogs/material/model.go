// Package material provides the material type catalog.
// Material types are the rentable items of the yard: shuttering plates,
// props, spans, scaffolding parts and so on, each with its own daily rate,
// loading charge, lost-item penalty and billing grace period.
package material

import (
	"context"

	"github.com/Juman-Kalita/Slab/internal/core/apperror"
	"github.com/Juman-Kalita/Slab/internal/core/types"
)

// Material describes a rentable material type.
//
// Unlike other catalogs, materials are keyed by a stable slug ("plate-3x2",
// "props-2x2") rather than a UUID: the slug is the public identifier used by
// challans, holdings and the stock register.
type Material struct {
	// ID is the stable slug identifier
	ID string `db:"id" json:"id"`

	// Category groups materials for display (Plates, Props, Scaffolding...)
	Category string `db:"category" json:"category"`

	// Name is the display name within the category
	Name string `db:"name" json:"name"`

	// Size is a free-form dimension label ("3'x2'", "2mx2.5m"), may be empty
	Size string `db:"size" json:"size,omitempty"`

	// RentPerDay is the daily rent per item
	RentPerDay types.Money `db:"rent_per_day" json:"rentPerDay"`

	// LoadingCharge is the per-item loading/unloading charge
	LoadingCharge types.Money `db:"loading_charge" json:"loadingCharge"`

	// LostItemPenalty is the one-time charge per lost item
	LostItemPenalty types.Money `db:"lost_item_penalty" json:"lostItemPenalty"`

	// GracePeriodDays is the minimum billed rental period
	GracePeriodDays int `db:"grace_period_days" json:"gracePeriodDays"`
}

// Validate implements entity.Validatable interface.
func (m *Material) Validate(ctx context.Context) error {
	if m.ID == "" {
		return apperror.NewValidation("material id is required").
			WithDetail("field", "id")
	}
	if m.Name == "" {
		return apperror.NewValidation("material name is required").
			WithDetail("field", "name")
	}
	if m.RentPerDay.IsNegative() {
		return apperror.NewValidation("rent per day cannot be negative").
			WithDetail("field", "rentPerDay")
	}
	if m.LoadingCharge.IsNegative() {
		return apperror.NewValidation("loading charge cannot be negative").
			WithDetail("field", "loadingCharge")
	}
	if m.LostItemPenalty.IsNegative() {
		return apperror.NewValidation("lost item penalty cannot be negative").
			WithDetail("field", "lostItemPenalty")
	}
	if m.GracePeriodDays < 0 {
		return apperror.NewValidation("grace period cannot be negative").
			WithDetail("field", "gracePeriodDays")
	}
	return nil
}

// DisplayName combines name and size for invoices and challans.
func (m *Material) DisplayName() string {
	if m.Size == "" {
		return m.Name
	}
	return m.Name + " " + m.Size
}
