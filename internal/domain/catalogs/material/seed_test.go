package material

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Juman-Kalita/Slab/internal/core/types"
)

func TestSeedCatalog_Integrity(t *testing.T) {
	entries := SeedCatalog()
	require.Len(t, entries, 55)

	ctx := context.Background()
	seen := make(map[string]bool)
	for _, e := range entries {
		require.NoError(t, e.Validate(ctx), "entry %s", e.ID)
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
		assert.False(t, e.OpeningStock.IsNegative(), "negative stock for %s", e.ID)
		assert.Equal(t, 30, e.GracePeriodDays, "entry %s", e.ID)
	}
}

func TestSeedCatalog_KnownRates(t *testing.T) {
	byID := make(map[string]SeedEntry)
	for _, e := range SeedCatalog() {
		byID[e.ID] = e
	}

	plate := byID["plate-3x2"]
	assert.True(t, plate.RentPerDay.Equal(types.MustMoney("2")))
	assert.True(t, plate.LostItemPenalty.Equal(types.MustMoney("1200")))
	assert.EqualValues(t, 7500, plate.OpeningStock)

	props := byID["props-2x2"]
	assert.True(t, props.RentPerDay.Equal(types.MustMoney("2.83")))
	assert.True(t, props.LoadingCharge.Equal(types.MustMoney("3")))

	vertical := byID["vertical-2.5m"]
	assert.True(t, vertical.LostItemPenalty.Equal(types.MustMoney("933.33")))
}

func TestMaterial_DisplayName(t *testing.T) {
	m := Material{Name: "Props", Size: "2mx2.5m"}
	assert.Equal(t, "Props 2mx2.5m", m.DisplayName())

	m.Size = ""
	assert.Equal(t, "Props", m.DisplayName())
}
