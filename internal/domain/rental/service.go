package rental

import (
	"context"
	"fmt"
	"time"

	"github.com/Juman-Kalita/Slab/internal/core/apperror"
	"github.com/Juman-Kalita/Slab/internal/core/id"
	"github.com/Juman-Kalita/Slab/internal/core/tx"
	"github.com/Juman-Kalita/Slab/internal/core/types"
	"github.com/Juman-Kalita/Slab/internal/domain/catalogs/customer"
	"github.com/Juman-Kalita/Slab/internal/domain/catalogs/material"
	"github.com/Juman-Kalita/Slab/internal/domain/registers/stock"
	"github.com/Juman-Kalita/Slab/pkg/logger"
	"github.com/Juman-Kalita/Slab/pkg/numerator"
)

// Service implements the rental operations: issue, return, payment.
// Every operation runs in a single transaction; the site row (and the
// customer row when the advance pool is touched) is locked for its duration.
type Service struct {
	repo      Repository
	customers *customer.Service
	materials *material.Service
	stock     *stock.Service
	txm       tx.Manager
	numerator *numerator.Service

	// now is the billing clock, swappable in tests
	now func() time.Time
}

// NewService creates a new rental service.
func NewService(
	repo Repository,
	customers *customer.Service,
	materials *material.Service,
	stockSvc *stock.Service,
	txm tx.Manager,
	num *numerator.Service,
) *Service {
	return &Service{
		repo:      repo,
		customers: customers,
		materials: materials,
		stock:     stockSvc,
		txm:       txm,
		numerator: num,
		now:       time.Now,
	}
}

// IssueItem is one material line of an issue.
type IssueItem struct {
	MaterialTypeID string
	Quantity       types.Quantity

	// HasOwnLabor waives the loading charge for this dispatch
	HasOwnLabor bool

	// LoadingChargeOverride replaces the catalog loading charge for this
	// line when the counter negotiates a custom total. Ignored with own labor.
	LoadingChargeOverride *types.Money
}

// IssueRequest describes one dispatch of materials to a customer site.
type IssueRequest struct {
	CustomerName string
	SiteName     string
	Location     string
	Items        []IssueItem
	IssueDate    time.Time

	// DepositAmount is cash taken at the counter along with the dispatch
	DepositAmount types.Money

	// CustomerDetails are applied to empty registration fields
	CustomerDetails customer.Details

	// Shipping metadata
	VehicleNo string
	ChallanNo string
}

// IssueResult reports the outcome of an issue.
type IssueResult struct {
	CustomerID id.ID  `json:"customerId"`
	SiteID     id.ID  `json:"siteId"`
	ChallanNo  string `json:"challanNo"`

	// AdvanceApplied is how much of the customer's advance pool was
	// automatically applied to the new charges
	AdvanceApplied types.Money `json:"advanceApplied"`
}

// Issue dispatches materials to a site, creating the customer and site on
// first contact. Stock is verified before anything is charged: a shortage
// on any line fails the whole dispatch.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	if err := validateIssue(req); err != nil {
		return nil, err
	}

	ids := make([]string, len(req.Items))
	deductions := make([]stock.Deduction, len(req.Items))
	for i, item := range req.Items {
		ids[i] = item.MaterialTypeID
		deductions[i] = stock.Deduction{MaterialTypeID: item.MaterialTypeID, Quantity: item.Quantity}
	}

	var result *IssueResult
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		materials, err := s.materials.Resolve(ctx, ids)
		if err != nil {
			return err
		}

		// Availability first: a shortage must fail before any charge is
		// recorded. The deduction itself commits or rolls back with the rest.
		if err := s.stock.CheckAndDeduct(ctx, deductions); err != nil {
			return err
		}

		cust, err := s.customers.ResolveOrCreate(ctx, req.CustomerName, req.CustomerDetails)
		if err != nil {
			return err
		}
		cust, err = s.customers.LockForUpdate(ctx, cust.ID)
		if err != nil {
			return err
		}

		site, newCycle, err := s.resolveSite(ctx, cust.ID, req)
		if err != nil {
			return err
		}

		challanNo := req.ChallanNo
		if challanNo == "" {
			challanNo, err = s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("CH"), nil, req.IssueDate)
			if err != nil {
				return fmt.Errorf("challan number: %w", err)
			}
		}
		site.ChallanNo = &challanNo
		if req.VehicleNo != "" {
			v := req.VehicleNo
			site.VehicleNo = &v
		}

		var events []HistoryEvent
		newCharges := types.Zero()

		for _, item := range req.Items {
			m := materials[item.MaterialTypeID]

			daysToCharge := IssueDaysToCharge(m, newCycle, site.IssueDate, req.IssueDate)
			rentCharge := m.RentPerDay.
				Mul(item.Quantity.Money()).
				Mul(types.MoneyFromInt(int64(daysToCharge)))

			issueLC := types.Zero()
			if !item.HasOwnLabor {
				if item.LoadingChargeOverride != nil {
					issueLC = *item.LoadingChargeOverride
				} else {
					issueLC = m.LoadingCharge.Mul(item.Quantity.Money())
				}
			}

			site.OriginalRentCharge = site.OriginalRentCharge.Add(rentCharge)
			site.OriginalIssueLC = site.OriginalIssueLC.Add(issueLC)
			newCharges = newCharges.Add(rentCharge).Add(issueLC)

			if err := s.addToHolding(ctx, site.ID, item, req.IssueDate); err != nil {
				return err
			}

			ev := newEvent(site.ID, req.IssueDate, ActionIssued)
			ev.MaterialTypeID = item.MaterialTypeID
			ev.Quantity = item.Quantity
			ev.HasOwnLabor = item.HasOwnLabor
			ev.DocumentNo = challanNo
			events = append(events, ev)
		}

		// The advance pool covers new charges automatically, capped at the
		// charge so leftover advance stays with the customer.
		advanceApplied := types.Zero()
		if cust.AdvanceDeposit.IsPositive() && newCharges.IsPositive() {
			advanceApplied = types.MinMoney(cust.AdvanceDeposit, newCharges)
			cust.AdvanceDeposit = cust.AdvanceDeposit.Sub(advanceApplied)
			site.AmountPaid = site.AmountPaid.Add(advanceApplied)

			ev, err := s.paymentEvent(ctx, site.ID, req.IssueDate, advanceApplied, MethodAdvance)
			if err != nil {
				return err
			}
			events = append(events, ev)
		}

		if req.DepositAmount.IsPositive() {
			site.AmountPaid = site.AmountPaid.Add(req.DepositAmount)

			ev, err := s.paymentEvent(ctx, site.ID, req.IssueDate, req.DepositAmount, MethodCash)
			if err != nil {
				return err
			}
			events = append(events, ev)
		}

		// Version stays as loaded: UpdateSite guards on it and does the bump.
		site.SetUpdatedAt(s.now().UTC())
		if err := s.repo.UpdateSite(ctx, site); err != nil {
			return fmt.Errorf("save site: %w", err)
		}
		if err := s.customers.Save(ctx, cust); err != nil {
			return err
		}
		if err := s.repo.AppendEvents(ctx, events); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		result = &IssueResult{
			CustomerID:     cust.ID,
			SiteID:         site.ID,
			ChallanNo:      challanNo,
			AdvanceApplied: advanceApplied,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "issued materials",
		"site_id", result.SiteID,
		"challan_no", result.ChallanNo,
		"lines", len(req.Items),
	)
	return result, nil
}

// resolveSite finds or creates the target site. Issuing to a settled site
// starts a fresh billing cycle: the site clock restarts at the new issue date.
func (s *Service) resolveSite(ctx context.Context, customerID id.ID, req IssueRequest) (*Site, bool, error) {
	existing, err := s.repo.FindSiteByName(ctx, customerID, req.SiteName, req.Location)
	if err != nil {
		if !apperror.IsNotFound(err) {
			return nil, false, fmt.Errorf("find site: %w", err)
		}

		site := NewSite(customerID, req.SiteName, req.Location, req.IssueDate)
		if err := site.Validate(ctx); err != nil {
			return nil, false, err
		}
		if err := s.repo.CreateSite(ctx, site); err != nil {
			return nil, false, fmt.Errorf("create site: %w", err)
		}
		return site, true, nil
	}

	site, err := s.repo.GetSiteForUpdate(ctx, existing.ID)
	if err != nil {
		return nil, false, err
	}

	if site.Status == StatusSettled {
		site.Status = StatusActive
		site.IssueDate = req.IssueDate
		return site, true, nil
	}
	return site, false, nil
}

// addToHolding merges an issue line into the site's holding for the material.
func (s *Service) addToHolding(ctx context.Context, siteID id.ID, item IssueItem, issueDate time.Time) error {
	h, err := s.repo.GetHolding(ctx, siteID, item.MaterialTypeID)
	if err != nil {
		if !apperror.IsNotFound(err) {
			return fmt.Errorf("get holding: %w", err)
		}
		h = &Holding{
			SiteID:         siteID,
			MaterialTypeID: item.MaterialTypeID,
			IssueDate:      issueDate,
			HasOwnLabor:    item.HasOwnLabor,
		}
	}

	h.Quantity += item.Quantity
	h.InitialQuantity += item.Quantity

	if err := s.repo.UpsertHolding(ctx, h); err != nil {
		return fmt.Errorf("upsert holding: %w", err)
	}
	return nil
}

func (s *Service) paymentEvent(ctx context.Context, siteID id.ID, date time.Time, amount types.Money, method string) (HistoryEvent, error) {
	receiptNo, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("RCPT"), nil, date)
	if err != nil {
		return HistoryEvent{}, fmt.Errorf("receipt number: %w", err)
	}

	ev := newEvent(siteID, date, ActionPayment)
	ev.Amount = amount
	ev.PaymentMethod = method
	ev.DocumentNo = receiptNo
	return ev, nil
}

func validateIssue(req IssueRequest) error {
	if customer.NormalizeName(req.CustomerName) == "" {
		return apperror.NewValidation("customer name is required")
	}
	if req.SiteName == "" || req.Location == "" {
		return apperror.NewValidation("site name and location are required")
	}
	if req.IssueDate.IsZero() {
		return apperror.NewValidation("issue date is required")
	}
	if len(req.Items) == 0 {
		return apperror.NewValidation("at least one material line is required")
	}
	seen := make(map[string]bool)
	for _, item := range req.Items {
		if item.MaterialTypeID == "" {
			return apperror.NewValidation("material type id is required")
		}
		if seen[item.MaterialTypeID] {
			return apperror.NewValidation("duplicate material line").
				WithDetail("material_type_id", item.MaterialTypeID)
		}
		seen[item.MaterialTypeID] = true
		if !item.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("material_type_id", item.MaterialTypeID)
		}
		if item.LoadingChargeOverride != nil && item.LoadingChargeOverride.IsNegative() {
			return apperror.NewValidation("loading charge override cannot be negative").
				WithDetail("material_type_id", item.MaterialTypeID)
		}
	}
	if req.DepositAmount.IsNegative() {
		return apperror.NewValidation("deposit amount cannot be negative")
	}
	return nil
}

// ReturnRequest describes a return of materials from a site.
type ReturnRequest struct {
	CustomerID     id.ID
	SiteID         id.ID
	MaterialTypeID string

	QuantityReturned types.Quantity
	QuantityLost     types.Quantity

	// HasOwnLabor waives the return loading charge
	HasOwnLabor bool

	ReturnDate time.Time
}

// Return records returned and lost quantities for one material of a site.
// Returned items go back to yard stock; lost items never do, and are charged
// the material's lost-item penalty instead.
func (s *Service) Return(ctx context.Context, req ReturnRequest) error {
	if req.QuantityReturned.IsNegative() || req.QuantityLost.IsNegative() {
		return apperror.NewValidation("quantities cannot be negative")
	}
	total := req.QuantityReturned + req.QuantityLost
	if !total.IsPositive() {
		return apperror.NewValidation("nothing to return")
	}
	if req.ReturnDate.IsZero() {
		return apperror.NewValidation("return date is required")
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		site, err := s.repo.GetSiteForUpdate(ctx, req.SiteID)
		if err != nil {
			return err
		}
		if site.CustomerID != req.CustomerID {
			return apperror.NewNotFound("site", req.SiteID)
		}

		m, err := s.materials.Get(ctx, req.MaterialTypeID)
		if err != nil {
			return err
		}

		h, err := s.repo.GetHolding(ctx, req.SiteID, req.MaterialTypeID)
		if err != nil {
			return err
		}
		if total > h.Quantity {
			return apperror.NewOverReturn(
				req.MaterialTypeID,
				req.QuantityReturned.Int64(),
				req.QuantityLost.Int64(),
				h.Quantity.Int64(),
			)
		}

		// InitialQuantity stays: the overdue penalty is charged on what was
		// issued this cycle, not on what is still out.
		h.Quantity -= total
		if err := s.repo.UpsertHolding(ctx, h); err != nil {
			return fmt.Errorf("upsert holding: %w", err)
		}

		if !req.HasOwnLabor && req.QuantityReturned.IsPositive() {
			site.ReturnLC = site.ReturnLC.Add(m.LoadingCharge.Mul(req.QuantityReturned.Money()))
		}
		if req.QuantityLost.IsPositive() {
			site.LostPenalty = site.LostPenalty.Add(m.LostItemPenalty.Mul(req.QuantityLost.Money()))
		}

		site.SetUpdatedAt(s.now().UTC())
		if err := s.repo.UpdateSite(ctx, site); err != nil {
			return fmt.Errorf("save site: %w", err)
		}

		ev := newEvent(site.ID, req.ReturnDate, ActionReturned)
		ev.MaterialTypeID = req.MaterialTypeID
		ev.Quantity = req.QuantityReturned
		ev.QuantityLost = req.QuantityLost
		ev.HasOwnLabor = req.HasOwnLabor
		if err := s.repo.AppendEvents(ctx, []HistoryEvent{ev}); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		return s.stock.Credit(ctx, req.MaterialTypeID, req.QuantityReturned)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "recorded return",
		"site_id", req.SiteID,
		"material_type_id", req.MaterialTypeID,
		"returned", req.QuantityReturned,
		"lost", req.QuantityLost,
	)
	return nil
}

// PaymentRequest describes a payment against a site.
type PaymentRequest struct {
	CustomerID id.ID
	SiteID     id.ID
	Amount     types.Money

	// PaymentMethod is free-form ("Cash", "Father", "Own"...); empty means Cash
	PaymentMethod string

	// PaymentDate allows backdating the receipt; zero means now
	PaymentDate time.Time
}

// PaymentResult reports how a payment was allocated.
type PaymentResult struct {
	// AdvanceApplied is advance-pool money applied before the new payment
	AdvanceApplied types.Money `json:"advanceApplied"`

	// AppliedToSite is how much of the new payment the site absorbed
	AppliedToSite types.Money `json:"appliedToSite"`

	// ExcessToAdvance is the overpayment moved into the advance pool
	ExcessToAdvance types.Money `json:"excessToAdvance"`

	// Settled reports whether this payment closed the billing cycle
	Settled bool `json:"settled"`

	ReceiptNo string `json:"receiptNo,omitempty"`
}

// RecordPayment applies a payment to a site. The customer's advance pool is
// drawn first; the payment then covers what remains owed; any excess tops the
// pool back up. When the site ends up fully returned and fully paid, the
// billing cycle settles exactly once within the same transaction.
func (s *Service) RecordPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	if req.Amount.IsNegative() {
		return nil, apperror.NewValidation("payment amount cannot be negative")
	}

	recordDate := req.PaymentDate
	if recordDate.IsZero() {
		recordDate = s.now().UTC()
	}
	method := req.PaymentMethod
	if method == "" {
		method = MethodCash
	}

	var result *PaymentResult
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		cust, err := s.customers.LockForUpdate(ctx, req.CustomerID)
		if err != nil {
			return err
		}

		site, err := s.repo.GetSiteForUpdate(ctx, req.SiteID)
		if err != nil {
			return err
		}
		if site.CustomerID != req.CustomerID {
			return apperror.NewNotFound("site", req.SiteID)
		}

		holdings, materials, err := s.loadBilling(ctx, site.ID)
		if err != nil {
			return err
		}

		// Penalty accrual is valued at the current moment even for a
		// backdated receipt; the date only stamps the ledger.
		now := s.now().UTC()
		owed := CalculateSiteRent(site, holdings, materials, now).RemainingDue

		var events []HistoryEvent
		res := &PaymentResult{
			AdvanceApplied:  types.Zero(),
			AppliedToSite:   types.Zero(),
			ExcessToAdvance: types.Zero(),
		}

		if cust.AdvanceDeposit.IsPositive() && owed.IsPositive() {
			res.AdvanceApplied = types.MinMoney(cust.AdvanceDeposit, owed)
			cust.AdvanceDeposit = cust.AdvanceDeposit.Sub(res.AdvanceApplied)
			site.AmountPaid = site.AmountPaid.Add(res.AdvanceApplied)

			ev, err := s.paymentEvent(ctx, site.ID, recordDate, res.AdvanceApplied, MethodAdvance)
			if err != nil {
				return err
			}
			events = append(events, ev)
		}

		stillOwed := owed.Sub(res.AdvanceApplied)
		res.AppliedToSite = types.MinMoney(req.Amount, types.MaxMoney(types.Zero(), stillOwed))
		res.ExcessToAdvance = req.Amount.Sub(res.AppliedToSite)

		if res.AppliedToSite.IsPositive() {
			site.AmountPaid = site.AmountPaid.Add(res.AppliedToSite)

			ev, err := s.paymentEvent(ctx, site.ID, recordDate, res.AppliedToSite, method)
			if err != nil {
				return err
			}
			res.ReceiptNo = ev.DocumentNo
			events = append(events, ev)
		}

		if res.ExcessToAdvance.IsPositive() {
			cust.AdvanceDeposit = cust.AdvanceDeposit.Add(res.ExcessToAdvance)
		}

		// Settle at most once: a payment against an already-settled site must
		// not re-stamp the settlement date.
		if site.Status != StatusSettled && CalculateSiteRent(site, holdings, materials, now).IsFullyPaid {
			site.Settle(recordDate)
			if err := s.repo.ResetInitialQuantities(ctx, site.ID); err != nil {
				return fmt.Errorf("reset holdings: %w", err)
			}
			res.Settled = true
		}

		site.SetUpdatedAt(s.now().UTC())
		if err := s.repo.UpdateSite(ctx, site); err != nil {
			return fmt.Errorf("save site: %w", err)
		}
		if err := s.customers.Save(ctx, cust); err != nil {
			return err
		}
		if len(events) > 0 {
			if err := s.repo.AppendEvents(ctx, events); err != nil {
				return fmt.Errorf("append history: %w", err)
			}
		}

		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "recorded payment",
		"site_id", req.SiteID,
		"amount", req.Amount,
		"applied", result.AppliedToSite,
		"advance_used", result.AdvanceApplied,
		"excess", result.ExcessToAdvance,
		"settled", result.Settled,
	)
	return result, nil
}

// GetRent computes the current billing breakdown of a site (read-only).
func (s *Service) GetRent(ctx context.Context, customerID, siteID id.ID) (*RentBreakdown, error) {
	site, err := s.repo.GetSite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if site.CustomerID != customerID {
		return nil, apperror.NewNotFound("site", siteID)
	}

	holdings, materials, err := s.loadBilling(ctx, siteID)
	if err != nil {
		return nil, err
	}

	breakdown := CalculateSiteRent(site, holdings, materials, s.now().UTC())
	return &breakdown, nil
}

// SiteWithRent pairs a site with its current breakdown.
type SiteWithRent struct {
	Site      *Site         `json:"site"`
	Breakdown RentBreakdown `json:"calculation"`
}

// CustomerSites returns all sites of a customer with current breakdowns.
func (s *Service) CustomerSites(ctx context.Context, customerID id.ID) ([]SiteWithRent, error) {
	sites, err := s.repo.ListSitesByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	out := make([]SiteWithRent, 0, len(sites))
	for _, site := range sites {
		holdings, materials, err := s.loadBilling(ctx, site.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, SiteWithRent{
			Site:      site,
			Breakdown: CalculateSiteRent(site, holdings, materials, now),
		})
	}
	return out, nil
}

// AllSites returns every site with its current breakdown (dashboard use).
func (s *Service) AllSites(ctx context.Context) ([]SiteWithRent, error) {
	sites, err := s.repo.ListSites(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	out := make([]SiteWithRent, 0, len(sites))
	for _, site := range sites {
		holdings, materials, err := s.loadBilling(ctx, site.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, SiteWithRent{
			Site:      site,
			Breakdown: CalculateSiteRent(site, holdings, materials, now),
		})
	}
	return out, nil
}

// History returns a site's ledger.
func (s *Service) History(ctx context.Context, customerID, siteID id.ID) ([]HistoryEvent, error) {
	site, err := s.repo.GetSite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if site.CustomerID != customerID {
		return nil, apperror.NewNotFound("site", siteID)
	}
	return s.repo.ListEvents(ctx, siteID)
}

func (s *Service) loadBilling(ctx context.Context, siteID id.ID) ([]Holding, map[string]*material.Material, error) {
	holdings, err := s.repo.ListHoldings(ctx, siteID)
	if err != nil {
		return nil, nil, fmt.Errorf("list holdings: %w", err)
	}

	ids := make([]string, len(holdings))
	for i, h := range holdings {
		ids[i] = h.MaterialTypeID
	}
	materials, err := s.materials.Resolve(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return holdings, materials, nil
}
