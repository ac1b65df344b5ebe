package rental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Juman-Kalita/Slab/internal/core/id"
	"github.com/Juman-Kalita/Slab/internal/core/types"
	"github.com/Juman-Kalita/Slab/internal/domain/catalogs/material"
)

func mkMaterial(slug, rent, lc, penalty string, grace int) *material.Material {
	return &material.Material{
		ID:              slug,
		Category:        "Test",
		Name:            slug,
		RentPerDay:      types.MustMoney(rent),
		LoadingCharge:   types.MustMoney(lc),
		LostItemPenalty: types.MustMoney(penalty),
		GracePeriodDays: grace,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysSince(t *testing.T) {
	jan1 := day(2026, time.January, 1)

	assert.Equal(t, 0, DaysSince(jan1, jan1))
	assert.Equal(t, 30, DaysSince(jan1, day(2026, time.January, 31)))

	// Partial days never count: 23 hours later is still day zero.
	assert.Equal(t, 0, DaysSince(jan1, jan1.Add(23*time.Hour)))
	assert.Equal(t, 1, DaysSince(jan1.Add(23*time.Hour), jan1.Add(25*time.Hour)))

	// Negative spans clamp to zero.
	assert.Equal(t, 0, DaysSince(day(2026, time.February, 1), jan1))
}

func TestEffectiveGracePeriod(t *testing.T) {
	mats := map[string]*material.Material{
		"a": mkMaterial("a", "2", "2", "100", 30),
		"b": mkMaterial("b", "1", "1", "50", 10),
	}

	// Floor of 20 with no holdings.
	assert.Equal(t, 20, EffectiveGracePeriod(nil, mats))

	// Only the 10-day material: floor still applies.
	holdings := []Holding{{MaterialTypeID: "b", Quantity: 1}}
	assert.Equal(t, 20, EffectiveGracePeriod(holdings, mats))

	// The 30-day material wins even at zero quantity.
	holdings = append(holdings, Holding{MaterialTypeID: "a", Quantity: 0})
	assert.Equal(t, 30, EffectiveGracePeriod(holdings, mats))
}

func TestIssueDaysToCharge(t *testing.T) {
	m := mkMaterial("a", "2", "2", "100", 30)
	start := day(2026, time.January, 1)

	// New site: exactly the grace period.
	assert.Equal(t, 30, IssueDaysToCharge(m, true, start, start))

	// Late addition within the grace window still pays full grace.
	assert.Equal(t, 30, IssueDaysToCharge(m, false, start, day(2026, time.January, 15)))

	// Late addition after the window pays the elapsed days.
	assert.Equal(t, 45, IssueDaysToCharge(m, false, start, day(2026, time.February, 15)))
}

func siteFixture(issueDate time.Time) *Site {
	return NewSite(id.New(), "Bridge Site", "Guwahati", issueDate)
}

func TestCalculateSiteRent_WithinGrace(t *testing.T) {
	mats := map[string]*material.Material{"plate-3x2": mkMaterial("plate-3x2", "2", "2", "1200", 30)}
	issue := day(2026, time.January, 1)

	site := siteFixture(issue)
	// 100 plates for 30 days rent, charged at issue.
	site.OriginalRentCharge = types.MustMoney("6000")
	site.OriginalIssueLC = types.MustMoney("200")

	holdings := []Holding{{MaterialTypeID: "plate-3x2", Quantity: 100, InitialQuantity: 100}}

	b := CalculateSiteRent(site, holdings, mats, day(2026, time.January, 20))
	assert.Equal(t, 19, b.Days)
	assert.True(t, b.IsWithinGracePeriod)
	assert.Equal(t, 0, b.DaysOverdue)
	assert.True(t, b.PenaltyAmount.IsZero())
	assert.True(t, b.TotalRequired.Equal(types.MustMoney("6200")))
	assert.False(t, b.IsFullyPaid)
}

func TestCalculateSiteRent_OverduePenalty(t *testing.T) {
	mats := map[string]*material.Material{"plate-3x2": mkMaterial("plate-3x2", "2", "2", "1200", 30)}
	issue := day(2026, time.January, 1)

	site := siteFixture(issue)
	site.OriginalRentCharge = types.MustMoney("6000")
	site.OriginalIssueLC = types.MustMoney("200")

	// 60 returned, 40 still out: penalty is charged on all 100 issued.
	holdings := []Holding{{MaterialTypeID: "plate-3x2", Quantity: 40, InitialQuantity: 100}}

	// Day 35: 5 days overdue. Penalty = 5 × 100 × 10 = 5000.
	b := CalculateSiteRent(site, holdings, mats, day(2026, time.February, 5))
	assert.Equal(t, 35, b.Days)
	assert.Equal(t, 5, b.DaysOverdue)
	assert.True(t, b.PenaltyAmount.Equal(types.MustMoney("5000")))
	assert.True(t, b.TotalRequired.Equal(types.MustMoney("11200")))
}

func TestCalculateSiteRent_OverpaymentOffsetsNewCharges(t *testing.T) {
	mats := map[string]*material.Material{"plate-3x2": mkMaterial("plate-3x2", "2", "2", "1200", 30)}
	issue := day(2026, time.January, 1)

	site := siteFixture(issue)
	site.OriginalRentCharge = types.MustMoney("6000")
	site.OriginalIssueLC = types.MustMoney("200")
	site.AmountPaid = types.MustMoney("6500") // 300 over the base
	site.ReturnLC = types.MustMoney("120")
	site.LostPenalty = types.MustMoney("1200")

	holdings := []Holding{{MaterialTypeID: "plate-3x2", Quantity: 0, InitialQuantity: 100}}

	// Within grace: base = 6200 paid 6500, overpayment 300 offsets the
	// 1320 of return-side charges.
	b := CalculateSiteRent(site, holdings, mats, day(2026, time.January, 10))
	assert.True(t, b.AmountPaidTowardsNew.Equal(types.MustMoney("300")))
	assert.True(t, b.TotalRequired.Equal(types.MustMoney("1020")))
	assert.False(t, b.IsFullyPaid)
}

func TestCalculateSiteRent_FullyPaid(t *testing.T) {
	mats := map[string]*material.Material{"plate-3x2": mkMaterial("plate-3x2", "2", "2", "1200", 30)}
	issue := day(2026, time.January, 1)

	site := siteFixture(issue)
	site.OriginalRentCharge = types.MustMoney("6000")
	site.OriginalIssueLC = types.MustMoney("200")
	site.ReturnLC = types.MustMoney("200")
	site.AmountPaid = types.MustMoney("6400")

	holdings := []Holding{{MaterialTypeID: "plate-3x2", Quantity: 0, InitialQuantity: 100}}

	b := CalculateSiteRent(site, holdings, mats, day(2026, time.January, 10))
	assert.True(t, b.RemainingDue.IsZero())
	assert.True(t, b.IsFullyPaid)

	// Same money but one item still out: not fully paid.
	holdings[0].Quantity = 1
	b = CalculateSiteRent(site, holdings, mats, day(2026, time.January, 10))
	assert.False(t, b.IsFullyPaid)
}

func TestCalculateSiteRent_SettledSiteOwesNothing(t *testing.T) {
	mats := map[string]*material.Material{"plate-3x2": mkMaterial("plate-3x2", "2", "2", "1200", 30)}
	issue := day(2026, time.January, 1)

	site := siteFixture(issue)
	site.OriginalRentCharge = types.MustMoney("6000")
	site.AmountPaid = types.MustMoney("6000")
	site.Settle(day(2026, time.January, 25))

	require.Equal(t, StatusSettled, site.Status)
	holdings := []Holding{{MaterialTypeID: "plate-3x2", Quantity: 0, InitialQuantity: 0}}

	// Even long after settlement no charges accrue: accumulators are zero
	// and no items are out.
	b := CalculateSiteRent(site, holdings, mats, day(2026, time.June, 1))
	assert.True(t, b.TotalRequired.IsZero())
	assert.True(t, b.PenaltyAmount.IsZero())
	assert.True(t, b.IsFullyPaid)
}

func TestCalculateSiteRent_FractionalRates(t *testing.T) {
	mats := map[string]*material.Material{"props-2x2": mkMaterial("props-2x2", "2.83", "3", "1440", 30)}
	issue := day(2026, time.January, 1)

	site := siteFixture(issue)
	// 10 props × 2.83 × 30 days = 849, exact in decimal.
	site.OriginalRentCharge = types.MustMoney("2.83").
		Mul(types.MoneyFromInt(10)).
		Mul(types.MoneyFromInt(30))

	holdings := []Holding{{MaterialTypeID: "props-2x2", Quantity: 10, InitialQuantity: 10}}

	b := CalculateSiteRent(site, holdings, mats, day(2026, time.January, 10))
	assert.True(t, b.RentAmount.Equal(types.MustMoney("849")), "got %s", b.RentAmount)
}
