package rental

import (
	"time"

	"github.com/Juman-Kalita/Slab/internal/core/types"
	"github.com/Juman-Kalita/Slab/internal/domain/catalogs/material"
)

// PenaltyPerItemDay is the flat overdue penalty per item per day,
// charged on top of rent once the grace period is exceeded.
var PenaltyPerItemDay = types.MoneyFromInt(10)

// MinGracePeriodDays is the floor of the site-level grace period.
const MinGracePeriodDays = 20

// DaysSince returns the whole number of days from one date to another.
// Both timestamps are truncated to UTC midnight first, so partial days
// never count; a non-positive span reports zero.
func DaysSince(from, to time.Time) int {
	f := truncateUTC(from)
	t := truncateUTC(to)
	days := int(t.Sub(f) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

func truncateUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EffectiveGracePeriod is the site-level grace period: the maximum grace
// period across the site's holdings (zero-quantity rows included, since they
// anchor the current cycle), floored at MinGracePeriodDays.
func EffectiveGracePeriod(holdings []Holding, materials map[string]*material.Material) int {
	grace := MinGracePeriodDays
	for _, h := range holdings {
		if m, ok := materials[h.MaterialTypeID]; ok && m.GracePeriodDays > grace {
			grace = m.GracePeriodDays
		}
	}
	return grace
}

// IssueDaysToCharge returns the number of days of rent charged up front
// for an issue. The first issue to a site charges exactly the material's
// grace period; a later addition charges at least the grace period, but
// never less than the site's clock already ran, so late-added materials
// cannot dodge accrued time.
func IssueDaysToCharge(m *material.Material, newSite bool, siteIssueDate, issueDate time.Time) int {
	grace := m.GracePeriodDays
	if newSite {
		return grace
	}
	if elapsed := DaysSince(siteIssueDate, issueDate); elapsed > grace {
		return elapsed
	}
	return grace
}

// MaterialLine is one row of the per-material breakdown.
type MaterialLine struct {
	Material        *material.Material `json:"material"`
	Quantity        types.Quantity     `json:"quantity"`
	InitialQuantity types.Quantity     `json:"initialQuantity"`
}

// RentBreakdown is the full billing picture of a site at a moment in time.
type RentBreakdown struct {
	// Days elapsed since the site's first issue
	Days int `json:"days"`

	// GracePeriodDays is the site-level effective grace period
	GracePeriodDays int `json:"gracePeriodDays"`

	IsWithinGracePeriod bool `json:"isWithinGracePeriod"`
	DaysOverdue         int  `json:"daysOverdue"`

	// RentAmount is the accumulated up-front rent of the cycle
	RentAmount types.Money `json:"rentAmount"`

	// IssueLoadingCharges accumulated at issue time
	IssueLoadingCharges types.Money `json:"issueLoadingCharges"`

	// ReturnLoadingCharges accumulated at return time
	ReturnLoadingCharges types.Money `json:"returnLoadingCharges"`

	// LostItemsPenalty accumulated from lost quantities
	LostItemsPenalty types.Money `json:"lostItemsPenalty"`

	// PenaltyAmount is the overdue penalty on all items issued this cycle
	PenaltyAmount types.Money `json:"penaltyAmount"`

	// TotalRequired is what the customer still owes for this site
	TotalRequired types.Money `json:"totalRequired"`

	// AmountPaidTowardsNew is how much earlier overpayment covered the
	// return-side charges
	AmountPaidTowardsNew types.Money `json:"amountPaidTowardsNew"`

	RemainingDue types.Money `json:"remainingDue"`

	// IsFullyPaid means nothing is owed and nothing is still out
	IsFullyPaid bool `json:"isFullyPaid"`

	Materials []MaterialLine `json:"materialBreakdown"`
}

// CalculateSiteRent computes the billing breakdown of a site.
// Pure function: all inputs are loaded by the caller, nothing is mutated.
//
// The charge model: rent and issue loading charges were fixed at issue time;
// the overdue penalty grows daily past the grace period on every item issued
// this cycle (returned or not); return loading charges and lost-item
// penalties accrue at return time. Overpayment of the base charges offsets
// the return-side charges once, and only within this site's cycle.
func CalculateSiteRent(site *Site, holdings []Holding, materials map[string]*material.Material, now time.Time) RentBreakdown {
	days := DaysSince(site.IssueDate, now)
	grace := EffectiveGracePeriod(holdings, materials)
	daysOverdue := days - grace
	if daysOverdue < 0 {
		daysOverdue = 0
	}

	var totalInitialItems types.Quantity
	lines := make([]MaterialLine, 0, len(holdings))
	for _, h := range holdings {
		totalInitialItems += h.InitialQuantity
		if m, ok := materials[h.MaterialTypeID]; ok {
			lines = append(lines, MaterialLine{
				Material:        m,
				Quantity:        h.Quantity,
				InitialQuantity: h.InitialQuantity,
			})
		}
	}

	penalty := PenaltyPerItemDay.
		Mul(totalInitialItems.Money()).
		Mul(types.MoneyFromInt(int64(daysOverdue)))

	baseCharges := site.OriginalRentCharge.Add(site.OriginalIssueLC).Add(penalty)
	unpaidBase := types.MaxMoney(types.Zero(), baseCharges.Sub(site.AmountPaid))
	overpayment := types.MaxMoney(types.Zero(), site.AmountPaid.Sub(baseCharges))

	newCharges := site.ReturnLC.Add(site.LostPenalty)
	newAfterOverpayment := types.MaxMoney(types.Zero(), newCharges.Sub(overpayment))

	totalRequired := unpaidBase.Add(newAfterOverpayment)

	allReturned := true
	for _, h := range holdings {
		if !h.Quantity.IsZero() {
			allReturned = false
			break
		}
	}

	return RentBreakdown{
		Days:                 days,
		GracePeriodDays:      grace,
		IsWithinGracePeriod:  days <= grace,
		DaysOverdue:          daysOverdue,
		RentAmount:           site.OriginalRentCharge,
		IssueLoadingCharges:  site.OriginalIssueLC,
		ReturnLoadingCharges: site.ReturnLC,
		LostItemsPenalty:     site.LostPenalty,
		PenaltyAmount:        penalty,
		TotalRequired:        totalRequired,
		AmountPaidTowardsNew: types.MinMoney(overpayment, newCharges),
		RemainingDue:         totalRequired,
		IsFullyPaid:          totalRequired.IsZero() && allReturned,
		Materials:            lines,
	}
}
