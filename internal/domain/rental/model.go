// Package rental implements the site ledger and the billing engine:
// issuing materials to customer sites, recording returns and losses,
// computing rent with grace periods and overdue penalties, and allocating
// payments up to cycle settlement.
package rental

import (
	"context"
	"strings"
	"time"

	"github.com/Juman-Kalita/Slab/internal/core/apperror"
	"github.com/Juman-Kalita/Slab/internal/core/entity"
	"github.com/Juman-Kalita/Slab/internal/core/id"
	"github.com/Juman-Kalita/Slab/internal/core/types"
)

// SiteStatus is the billing lifecycle state of a site.
type SiteStatus string

const (
	// StatusActive means the site holds materials or has unsettled charges.
	StatusActive SiteStatus = "active"

	// StatusSettled means everything was returned and paid; the next issue
	// to this site starts a fresh billing cycle.
	StatusSettled SiteStatus = "settled"
)

// Site is one construction site of a customer. All charges, payments and
// holdings are tracked per site; only the advance-deposit pool lives on the
// customer.
type Site struct {
	entity.BaseDocument

	CustomerID id.ID `db:"customer_id" json:"customerId"`

	// SiteName and Location identify the site within a customer
	// (matched case-insensitively at the counter)
	SiteName string `db:"site_name" json:"siteName"`
	Location string `db:"location" json:"location"`

	// IssueDate is when materials were first issued to this site.
	// It anchors the grace-period clock for the whole site.
	IssueDate time.Time `db:"issue_date" json:"issueDate"`

	// AmountPaid accumulates payments in the current billing cycle
	AmountPaid types.Money `db:"amount_paid" json:"amountPaid"`

	// LastSettlementDate is when the previous cycle was closed, if ever
	LastSettlementDate *time.Time `db:"last_settlement_date" json:"lastSettlementDate,omitempty"`

	// OriginalRentCharge accumulates up-front rent charged at each issue
	OriginalRentCharge types.Money `db:"original_rent_charge" json:"originalRentCharge"`

	// OriginalIssueLC accumulates loading charges from issues
	OriginalIssueLC types.Money `db:"original_issue_lc" json:"originalIssueLC"`

	// ReturnLC accumulates loading charges from returns in this cycle
	ReturnLC types.Money `db:"return_lc" json:"returnLC"`

	// LostPenalty accumulates lost-item charges in this cycle
	LostPenalty types.Money `db:"lost_penalty" json:"lostPenalty"`

	Status SiteStatus `db:"status" json:"status"`

	// Shipping metadata from the latest dispatch
	VehicleNo *string `db:"vehicle_no" json:"vehicleNo,omitempty"`
	ChallanNo *string `db:"challan_no" json:"challanNo,omitempty"`
}

// NewSite creates a new active site for a customer.
func NewSite(customerID id.ID, siteName, location string, issueDate time.Time) *Site {
	return &Site{
		BaseDocument:       entity.NewBaseDocument(),
		CustomerID:         customerID,
		SiteName:           strings.TrimSpace(siteName),
		Location:           strings.TrimSpace(location),
		IssueDate:          issueDate,
		AmountPaid:         types.Zero(),
		OriginalRentCharge: types.Zero(),
		OriginalIssueLC:    types.Zero(),
		ReturnLC:           types.Zero(),
		LostPenalty:        types.Zero(),
		Status:             StatusActive,
	}
}

// Validate implements entity.Validatable interface.
func (s *Site) Validate(ctx context.Context) error {
	if strings.TrimSpace(s.SiteName) == "" {
		return apperror.NewValidation("site name is required").
			WithDetail("field", "siteName")
	}
	if strings.TrimSpace(s.Location) == "" {
		return apperror.NewValidation("location is required").
			WithDetail("field", "location")
	}
	if s.IssueDate.IsZero() {
		return apperror.NewValidation("issue date is required").
			WithDetail("field", "issueDate")
	}
	return nil
}

// Settle closes the current billing cycle at the given date.
// Caller must have verified the site is fully returned and fully paid.
func (s *Site) Settle(at time.Time) {
	t := at
	s.LastSettlementDate = &t
	s.AmountPaid = types.Zero()
	s.OriginalRentCharge = types.Zero()
	s.OriginalIssueLC = types.Zero()
	s.ReturnLC = types.Zero()
	s.LostPenalty = types.Zero()
	s.Status = StatusSettled
}

// Holding is one material type held at a site.
//
// Holdings are never deleted: InitialQuantity must survive full returns
// because the overdue penalty is charged on items issued this cycle, not
// items still out.
type Holding struct {
	SiteID         id.ID  `db:"site_id" json:"siteId"`
	MaterialTypeID string `db:"material_type_id" json:"materialTypeId"`

	// Quantity still at the site
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// InitialQuantity issued in the current billing cycle
	InitialQuantity types.Quantity `db:"initial_quantity" json:"initialQuantity"`

	// IssueDate of the first dispatch of this material type
	IssueDate time.Time `db:"issue_date" json:"issueDate"`

	// HasOwnLabor waives loading charges when the customer loads themselves
	HasOwnLabor bool `db:"has_own_labor" json:"hasOwnLabor"`
}

// EventAction is the kind of a site history event.
type EventAction string

const (
	ActionIssued   EventAction = "Issued"
	ActionReturned EventAction = "Returned"
	ActionPayment  EventAction = "Payment"
)

// Payment methods written into history events.
const (
	MethodCash    = "Cash"
	MethodAdvance = "Advance Deposit"
)

// HistoryEvent is one append-only entry in a site's ledger.
type HistoryEvent struct {
	ID     id.ID       `db:"id" json:"id"`
	SiteID id.ID       `db:"site_id" json:"siteId"`
	Date   time.Time   `db:"date" json:"date"`
	Action EventAction `db:"action" json:"action"`

	// Issue/Return fields
	MaterialTypeID string         `db:"material_type_id" json:"materialTypeId,omitempty"`
	Quantity       types.Quantity `db:"quantity" json:"quantity,omitempty"`
	QuantityLost   types.Quantity `db:"quantity_lost" json:"quantityLost,omitempty"`
	HasOwnLabor    bool           `db:"has_own_labor" json:"hasOwnLabor,omitempty"`

	// Payment fields
	Amount        types.Money `db:"amount" json:"amount"`
	PaymentMethod string      `db:"payment_method" json:"paymentMethod,omitempty"`

	// DocumentNo is the challan number (Issued) or receipt number (Payment)
	DocumentNo string `db:"document_no" json:"documentNo,omitempty"`
}

func newEvent(siteID id.ID, date time.Time, action EventAction) HistoryEvent {
	return HistoryEvent{
		ID:     id.New(),
		SiteID: siteID,
		Date:   date,
		Action: action,
		Amount: types.Zero(),
	}
}
