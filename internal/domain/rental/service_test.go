package rental

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Juman-Kalita/Slab/internal/core/apperror"
	"github.com/Juman-Kalita/Slab/internal/core/id"
	"github.com/Juman-Kalita/Slab/internal/core/types"
	"github.com/Juman-Kalita/Slab/internal/domain/catalogs/customer"
	"github.com/Juman-Kalita/Slab/internal/domain/catalogs/material"
	"github.com/Juman-Kalita/Slab/internal/domain/registers/stock"
	"github.com/Juman-Kalita/Slab/pkg/numerator"
)

// --- in-memory fakes ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type seqRow struct{ val int64 }

func (r *seqRow) Scan(dest ...any) error {
	if p, ok := dest[0].(*int64); ok {
		*p = r.val
	}
	return nil
}

// seqQuerier is a per-key in-memory sys_sequences.
type seqQuerier struct {
	vals map[string]int64
}

func (q *seqQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if q.vals == nil {
		q.vals = make(map[string]int64)
	}
	key, _ := args[0].(string)
	q.vals[key]++
	return &seqRow{val: q.vals[key]}
}

type memMaterialRepo struct {
	byID map[string]*material.Material
}

func (r *memMaterialRepo) GetByID(ctx context.Context, slug string) (*material.Material, error) {
	if m, ok := r.byID[slug]; ok {
		return m, nil
	}
	return nil, apperror.NewNotFound("material", slug)
}

func (r *memMaterialRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*material.Material, error) {
	out := make(map[string]*material.Material)
	for _, slug := range ids {
		if m, ok := r.byID[slug]; ok {
			out[slug] = m
		}
	}
	return out, nil
}

func (r *memMaterialRepo) List(ctx context.Context) ([]*material.Material, error) {
	var out []*material.Material
	for _, m := range r.byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memMaterialRepo) Upsert(ctx context.Context, m *material.Material) error {
	r.byID[m.ID] = m
	return nil
}

type memCustomerRepo struct {
	byID map[id.ID]*customer.Customer
}

func (r *memCustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCustomerRepo) Update(ctx context.Context, c *customer.Customer) error {
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCustomerRepo) GetByID(ctx context.Context, cid id.ID) (*customer.Customer, error) {
	if c, ok := r.byID[cid]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, apperror.NewNotFound("customer", cid)
}

func (r *memCustomerRepo) GetByIDForUpdate(ctx context.Context, cid id.ID) (*customer.Customer, error) {
	return r.GetByID(ctx, cid)
}

func (r *memCustomerRepo) FindByName(ctx context.Context, name string) (*customer.Customer, error) {
	for _, c := range r.byID {
		if customer.NormalizeName(c.Name) == customer.NormalizeName(name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("customer", name)
}

func (r *memCustomerRepo) List(ctx context.Context) ([]*customer.Customer, error) {
	var out []*customer.Customer
	for _, c := range r.byID {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

type memStockRepo struct {
	balances map[string]types.Quantity
}

func (r *memStockRepo) GetBalance(ctx context.Context, slug string) (stock.Balance, error) {
	return stock.Balance{MaterialTypeID: slug, Quantity: r.balances[slug]}, nil
}

func (r *memStockRepo) GetBalanceForUpdate(ctx context.Context, slug string) (stock.Balance, error) {
	return r.GetBalance(ctx, slug)
}

func (r *memStockRepo) ListBalances(ctx context.Context) ([]stock.Balance, error) {
	var out []stock.Balance
	for k, v := range r.balances {
		out = append(out, stock.Balance{MaterialTypeID: k, Quantity: v})
	}
	return out, nil
}

func (r *memStockRepo) AdjustBalance(ctx context.Context, slug string, delta types.Quantity) (bool, error) {
	next := r.balances[slug] + delta
	if next < 0 {
		return false, nil
	}
	r.balances[slug] = next
	return true, nil
}

func (r *memStockRepo) SetBalance(ctx context.Context, slug string, qty types.Quantity) error {
	r.balances[slug] = qty
	return nil
}

type holdingKey struct {
	siteID id.ID
	slug   string
}

type memRentalRepo struct {
	sites    map[id.ID]*Site
	holdings map[holdingKey]*Holding
	events   []HistoryEvent
}

func newMemRentalRepo() *memRentalRepo {
	return &memRentalRepo{
		sites:    make(map[id.ID]*Site),
		holdings: make(map[holdingKey]*Holding),
	}
}

func (r *memRentalRepo) CreateSite(ctx context.Context, s *Site) error {
	cp := *s
	r.sites[s.ID] = &cp
	return nil
}

// UpdateSite enforces the same optimistic-lock contract as the SQL repo:
// the stored version must match, and the write bumps it.
func (r *memRentalRepo) UpdateSite(ctx context.Context, s *Site) error {
	stored, ok := r.sites[s.ID]
	if !ok || stored.Version != s.Version {
		return apperror.NewConflict("concurrent modification").
			WithDetail("entity", "sites").
			WithDetail("id", s.ID.String())
	}
	cp := *s
	cp.SetVersion(s.Version + 1)
	r.sites[s.ID] = &cp
	s.SetVersion(s.Version + 1)
	return nil
}

func (r *memRentalRepo) GetSite(ctx context.Context, siteID id.ID) (*Site, error) {
	if s, ok := r.sites[siteID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, apperror.NewNotFound("site", siteID)
}

func (r *memRentalRepo) GetSiteForUpdate(ctx context.Context, siteID id.ID) (*Site, error) {
	return r.GetSite(ctx, siteID)
}

func (r *memRentalRepo) FindSiteByName(ctx context.Context, customerID id.ID, siteName, location string) (*Site, error) {
	for _, s := range r.sites {
		if s.CustomerID == customerID &&
			strings.EqualFold(s.SiteName, strings.TrimSpace(siteName)) &&
			strings.EqualFold(s.Location, strings.TrimSpace(location)) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("site", siteName)
}

func (r *memRentalRepo) ListSitesByCustomer(ctx context.Context, customerID id.ID) ([]*Site, error) {
	var out []*Site
	for _, s := range r.sites {
		if s.CustomerID == customerID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRentalRepo) ListSites(ctx context.Context) ([]*Site, error) {
	var out []*Site
	for _, s := range r.sites {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memRentalRepo) GetHolding(ctx context.Context, siteID id.ID, slug string) (*Holding, error) {
	if h, ok := r.holdings[holdingKey{siteID, slug}]; ok {
		cp := *h
		return &cp, nil
	}
	return nil, apperror.NewNotFound("holding", slug)
}

func (r *memRentalRepo) ListHoldings(ctx context.Context, siteID id.ID) ([]Holding, error) {
	var out []Holding
	for k, h := range r.holdings {
		if k.siteID == siteID {
			out = append(out, *h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MaterialTypeID < out[j].MaterialTypeID })
	return out, nil
}

func (r *memRentalRepo) UpsertHolding(ctx context.Context, h *Holding) error {
	cp := *h
	r.holdings[holdingKey{h.SiteID, h.MaterialTypeID}] = &cp
	return nil
}

func (r *memRentalRepo) ResetInitialQuantities(ctx context.Context, siteID id.ID) error {
	for k, h := range r.holdings {
		if k.siteID == siteID {
			h.InitialQuantity = h.Quantity
		}
	}
	return nil
}

func (r *memRentalRepo) AppendEvents(ctx context.Context, events []HistoryEvent) error {
	r.events = append(r.events, events...)
	return nil
}

func (r *memRentalRepo) ListEvents(ctx context.Context, siteID id.ID) ([]HistoryEvent, error) {
	var out []HistoryEvent
	for _, e := range r.events {
		if e.SiteID == siteID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// --- harness ---

type fixture struct {
	svc       *Service
	repo      *memRentalRepo
	customers *memCustomerRepo
	stock     *memStockRepo
	materials *memMaterialRepo
}

func newFixture() *fixture {
	matRepo := &memMaterialRepo{byID: map[string]*material.Material{
		"plate-3x2": mkMaterial("plate-3x2", "2", "2", "1200", 30),
		"props-2x2": mkMaterial("props-2x2", "2.83", "3", "1440", 30),
	}}
	custRepo := &memCustomerRepo{byID: make(map[id.ID]*customer.Customer)}
	stockRepo := &memStockRepo{balances: map[string]types.Quantity{
		"plate-3x2": 1000,
		"props-2x2": 50,
	}}
	rentalRepo := newMemRentalRepo()

	num := numerator.New(&seqQuerier{})
	svc := NewService(
		rentalRepo,
		customer.NewService(custRepo, num),
		material.NewService(matRepo),
		stock.NewService(stockRepo),
		fakeTxManager{},
		num,
	)
	// Freeze the billing clock inside the grace window of the fixtures.
	svc.now = func() time.Time { return day(2026, time.January, 25) }
	return &fixture{
		svc:       svc,
		repo:      rentalRepo,
		customers: custRepo,
		stock:     stockRepo,
		materials: matRepo,
	}
}

func issueReq(name string, qty int64, issueDate time.Time) IssueRequest {
	return IssueRequest{
		CustomerName: name,
		SiteName:     "Bridge Site",
		Location:     "Guwahati",
		IssueDate:    issueDate,
		Items: []IssueItem{
			{MaterialTypeID: "plate-3x2", Quantity: types.Quantity(qty)},
		},
		DepositAmount: types.Zero(),
	}
}

// --- tests ---

func TestIssue_NewCustomerNewSite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := issueReq("Ram Kumar", 50, day(2026, time.January, 1))
	req.DepositAmount = types.MustMoney("1000")
	req.VehicleNo = "AS-01-1234"
	req.CustomerDetails = customer.Details{ContactNo: "9876543210"}

	res, err := f.svc.Issue(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, strings.HasPrefix(res.ChallanNo, "CH-2026-"))

	site, err := f.repo.GetSite(ctx, res.SiteID)
	require.NoError(t, err)
	// 50 × 2/day × 30 days grace
	assert.True(t, site.OriginalRentCharge.Equal(types.MustMoney("3000")))
	assert.True(t, site.OriginalIssueLC.Equal(types.MustMoney("100")))
	assert.True(t, site.AmountPaid.Equal(types.MustMoney("1000")))
	assert.Equal(t, StatusActive, site.Status)
	require.NotNil(t, site.VehicleNo)
	assert.Equal(t, "AS-01-1234", *site.VehicleNo)

	h, err := f.repo.GetHolding(ctx, res.SiteID, "plate-3x2")
	require.NoError(t, err)
	assert.EqualValues(t, 50, h.Quantity)
	assert.EqualValues(t, 50, h.InitialQuantity)

	assert.EqualValues(t, 950, f.stock.balances["plate-3x2"])

	events, _ := f.repo.ListEvents(ctx, res.SiteID)
	require.Len(t, events, 2)
	assert.Equal(t, ActionIssued, events[0].Action)
	assert.Equal(t, res.ChallanNo, events[0].DocumentNo)
	assert.Equal(t, ActionPayment, events[1].Action)
	assert.Equal(t, MethodCash, events[1].PaymentMethod)
	assert.True(t, strings.HasPrefix(events[1].DocumentNo, "RCPT-2026-"))

	cust, err := f.customers.GetByID(ctx, res.CustomerID)
	require.NoError(t, err)
	require.NotNil(t, cust.ContactNo)
	assert.Equal(t, "9876543210", *cust.ContactNo)
	assert.True(t, strings.HasPrefix(cust.Code, "CUST-"))
}

func TestIssue_InsufficientStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := issueReq("Ram Kumar", 2000, day(2026, time.January, 1))
	_, err := f.svc.Issue(ctx, req)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Shortage is detected before anything is written.
	assert.EqualValues(t, 1000, f.stock.balances["plate-3x2"])
	custs, _ := f.customers.List(ctx)
	assert.Empty(t, custs)
	assert.Empty(t, f.repo.sites)
}

func TestIssue_LateAdditionChargesElapsedDays(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Issue(ctx, issueReq("Ram Kumar", 50, day(2026, time.January, 1)))
	require.NoError(t, err)

	// 45 days later, same site: the new line pays 45 days, not 30.
	req := issueReq("ram kumar", 10, day(2026, time.February, 15))
	res2, err := f.svc.Issue(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, res.SiteID, res2.SiteID, "case-insensitive match must reuse the site")

	site, _ := f.repo.GetSite(ctx, res.SiteID)
	// 3000 + 10 × 2 × 45 = 3900
	assert.True(t, site.OriginalRentCharge.Equal(types.MustMoney("3900")), "got %s", site.OriginalRentCharge)

	h, _ := f.repo.GetHolding(ctx, res.SiteID, "plate-3x2")
	assert.EqualValues(t, 60, h.Quantity)
	assert.EqualValues(t, 60, h.InitialQuantity)
}

func TestIssue_OwnLaborWaivesLoadingCharge(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := issueReq("Ram Kumar", 50, day(2026, time.January, 1))
	req.Items[0].HasOwnLabor = true
	res, err := f.svc.Issue(ctx, req)
	require.NoError(t, err)

	site, _ := f.repo.GetSite(ctx, res.SiteID)
	assert.True(t, site.OriginalIssueLC.IsZero())
}

func TestIssue_AdvanceAutoApplied(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// First dispatch, then overpay to park 500 in the advance pool.
	res, err := f.svc.Issue(ctx, issueReq("Ram Kumar", 50, day(2026, time.January, 1)))
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(ctx, PaymentRequest{
		CustomerID:  res.CustomerID,
		SiteID:      res.SiteID,
		Amount:      types.MustMoney("3600"), // owed 3100 within grace
		PaymentDate: day(2026, time.January, 5),
	})
	require.NoError(t, err)

	cust, _ := f.customers.GetByID(ctx, res.CustomerID)
	require.True(t, cust.AdvanceDeposit.Equal(types.MustMoney("500")), "got %s", cust.AdvanceDeposit)

	// Next dispatch: 10 plates, 10×2×30 + 10×2 = 620 new charges, advance
	// covers all of it automatically.
	res2, err := f.svc.Issue(ctx, issueReq("Ram Kumar", 10, day(2026, time.January, 10)))
	require.NoError(t, err)
	assert.True(t, res2.AdvanceApplied.Equal(types.MustMoney("500")))

	cust, _ = f.customers.GetByID(ctx, res.CustomerID)
	assert.True(t, cust.AdvanceDeposit.IsZero())
}

func TestReturn_AccumulatesChargesAndCreditsStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Issue(ctx, issueReq("Ram Kumar", 50, day(2026, time.January, 1)))
	require.NoError(t, err)

	err = f.svc.Return(ctx, ReturnRequest{
		CustomerID:       res.CustomerID,
		SiteID:           res.SiteID,
		MaterialTypeID:   "plate-3x2",
		QuantityReturned: 30,
		QuantityLost:     2,
		ReturnDate:       day(2026, time.January, 20),
	})
	require.NoError(t, err)

	site, _ := f.repo.GetSite(ctx, res.SiteID)
	// 30 × 2 return LC, 2 × 1200 lost penalty
	assert.True(t, site.ReturnLC.Equal(types.MustMoney("60")))
	assert.True(t, site.LostPenalty.Equal(types.MustMoney("2400")))

	h, _ := f.repo.GetHolding(ctx, res.SiteID, "plate-3x2")
	assert.EqualValues(t, 18, h.Quantity)
	assert.EqualValues(t, 50, h.InitialQuantity, "initial quantity must survive returns")

	// Lost items never come back to stock: 950 + 30.
	assert.EqualValues(t, 980, f.stock.balances["plate-3x2"])
}

func TestReturn_OverReturnRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Issue(ctx, issueReq("Ram Kumar", 50, day(2026, time.January, 1)))
	require.NoError(t, err)

	err = f.svc.Return(ctx, ReturnRequest{
		CustomerID:       res.CustomerID,
		SiteID:           res.SiteID,
		MaterialTypeID:   "plate-3x2",
		QuantityReturned: 49,
		QuantityLost:     2,
		ReturnDate:       day(2026, time.January, 20),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsOverReturn(err))

	h, _ := f.repo.GetHolding(ctx, res.SiteID, "plate-3x2")
	assert.EqualValues(t, 50, h.Quantity, "failed return must not mutate")
}

func TestReturn_OwnLaborWaivesReturnLC(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Issue(ctx, issueReq("Ram Kumar", 50, day(2026, time.January, 1)))
	require.NoError(t, err)

	err = f.svc.Return(ctx, ReturnRequest{
		CustomerID:       res.CustomerID,
		SiteID:           res.SiteID,
		MaterialTypeID:   "plate-3x2",
		QuantityReturned: 50,
		HasOwnLabor:      true,
		ReturnDate:       day(2026, time.January, 20),
	})
	require.NoError(t, err)

	site, _ := f.repo.GetSite(ctx, res.SiteID)
	assert.True(t, site.ReturnLC.IsZero())
}

func TestRecordPayment_ExcessGoesToAdvance(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Issue(ctx, issueReq("Ram Kumar", 50, day(2026, time.January, 1)))
	require.NoError(t, err)

	// Owed 3100 within grace; pay 4000.
	pr, err := f.svc.RecordPayment(ctx, PaymentRequest{
		CustomerID: res.CustomerID,
		SiteID:     res.SiteID,
		Amount:     types.MustMoney("4000"),
	})
	require.NoError(t, err)
	assert.True(t, pr.AppliedToSite.Equal(types.MustMoney("3100")), "got %s", pr.AppliedToSite)
	assert.True(t, pr.ExcessToAdvance.Equal(types.MustMoney("900")))
	assert.False(t, pr.Settled, "items still out: no settlement")

	cust, _ := f.customers.GetByID(ctx, res.CustomerID)
	assert.True(t, cust.AdvanceDeposit.Equal(types.MustMoney("900")))
}

func TestRecordPayment_SettlementResetsCycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Issue(ctx, issueReq("Ram Kumar", 50, day(2026, time.January, 1)))
	require.NoError(t, err)

	require.NoError(t, f.svc.Return(ctx, ReturnRequest{
		CustomerID:       res.CustomerID,
		SiteID:           res.SiteID,
		MaterialTypeID:   "plate-3x2",
		QuantityReturned: 50,
		ReturnDate:       day(2026, time.January, 20),
	}))

	// Owed: 3000 rent + 100 issue LC + 100 return LC = 3200.
	pr, err := f.svc.RecordPayment(ctx, PaymentRequest{
		CustomerID:  res.CustomerID,
		SiteID:      res.SiteID,
		Amount:      types.MustMoney("3200"),
		PaymentDate: day(2026, time.January, 21),
	})
	require.NoError(t, err)
	assert.True(t, pr.Settled)

	site, _ := f.repo.GetSite(ctx, res.SiteID)
	assert.Equal(t, StatusSettled, site.Status)
	require.NotNil(t, site.LastSettlementDate)
	assert.True(t, site.AmountPaid.IsZero())
	assert.True(t, site.OriginalRentCharge.IsZero())
	assert.True(t, site.OriginalIssueLC.IsZero())
	assert.True(t, site.ReturnLC.IsZero())
	assert.True(t, site.LostPenalty.IsZero())

	h, _ := f.repo.GetHolding(ctx, res.SiteID, "plate-3x2")
	assert.EqualValues(t, 0, h.InitialQuantity)

	// The settled site owes nothing.
	b, err := f.svc.GetRent(ctx, res.CustomerID, res.SiteID)
	require.NoError(t, err)
	assert.True(t, b.RemainingDue.IsZero())
	assert.True(t, b.IsFullyPaid)
}

func TestIssue_ToSettledSiteStartsNewCycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Issue(ctx, issueReq("Ram Kumar", 50, day(2026, time.January, 1)))
	require.NoError(t, err)

	require.NoError(t, f.svc.Return(ctx, ReturnRequest{
		CustomerID:       res.CustomerID,
		SiteID:           res.SiteID,
		MaterialTypeID:   "plate-3x2",
		QuantityReturned: 50,
		ReturnDate:       day(2026, time.January, 20),
	}))
	pr, err := f.svc.RecordPayment(ctx, PaymentRequest{
		CustomerID:  res.CustomerID,
		SiteID:      res.SiteID,
		Amount:      types.MustMoney("3200"),
		PaymentDate: day(2026, time.January, 21),
	})
	require.NoError(t, err)
	require.True(t, pr.Settled)

	// Months later, a new dispatch reopens the site with a fresh clock:
	// the new line pays exactly the grace period again.
	res2, err := f.svc.Issue(ctx, issueReq("Ram Kumar", 20, day(2026, time.June, 1)))
	require.NoError(t, err)
	require.Equal(t, res.SiteID, res2.SiteID)

	site, _ := f.repo.GetSite(ctx, res.SiteID)
	assert.Equal(t, StatusActive, site.Status)
	assert.Equal(t, day(2026, time.June, 1), site.IssueDate)
	// 20 × 2 × 30 = 1200
	assert.True(t, site.OriginalRentCharge.Equal(types.MustMoney("1200")), "got %s", site.OriginalRentCharge)
}

func TestWrites_AdvanceSiteVersion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// A new site is created at version 1; the first dispatch must pass the
	// repository's version guard and land the bump.
	res, err := f.svc.Issue(ctx, issueReq("Ram Kumar", 50, day(2026, time.January, 1)))
	require.NoError(t, err)

	site, err := f.repo.GetSite(ctx, res.SiteID)
	require.NoError(t, err)
	assert.Equal(t, 2, site.Version)

	require.NoError(t, f.svc.Return(ctx, ReturnRequest{
		CustomerID:       res.CustomerID,
		SiteID:           res.SiteID,
		MaterialTypeID:   "plate-3x2",
		QuantityReturned: 10,
		ReturnDate:       day(2026, time.January, 10),
	}))
	site, _ = f.repo.GetSite(ctx, res.SiteID)
	assert.Equal(t, 3, site.Version)

	_, err = f.svc.RecordPayment(ctx, PaymentRequest{
		CustomerID: res.CustomerID,
		SiteID:     res.SiteID,
		Amount:     types.MustMoney("100"),
	})
	require.NoError(t, err)
	site, _ = f.repo.GetSite(ctx, res.SiteID)
	assert.Equal(t, 4, site.Version)
}

func TestRecordPayment_SettledSiteKeepsSettlementDate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Issue(ctx, issueReq("Ram Kumar", 50, day(2026, time.January, 1)))
	require.NoError(t, err)

	require.NoError(t, f.svc.Return(ctx, ReturnRequest{
		CustomerID:       res.CustomerID,
		SiteID:           res.SiteID,
		MaterialTypeID:   "plate-3x2",
		QuantityReturned: 50,
		ReturnDate:       day(2026, time.January, 20),
	}))
	pr, err := f.svc.RecordPayment(ctx, PaymentRequest{
		CustomerID:  res.CustomerID,
		SiteID:      res.SiteID,
		Amount:      types.MustMoney("3200"),
		PaymentDate: day(2026, time.January, 21),
	})
	require.NoError(t, err)
	require.True(t, pr.Settled)

	// A later payment against the settled site parks in the advance pool
	// and must not re-stamp the settlement date.
	pr2, err := f.svc.RecordPayment(ctx, PaymentRequest{
		CustomerID:  res.CustomerID,
		SiteID:      res.SiteID,
		Amount:      types.MustMoney("100"),
		PaymentDate: day(2026, time.February, 10),
	})
	require.NoError(t, err)
	assert.False(t, pr2.Settled)
	assert.True(t, pr2.ExcessToAdvance.Equal(types.MustMoney("100")))

	site, _ := f.repo.GetSite(ctx, res.SiteID)
	assert.Equal(t, StatusSettled, site.Status)
	require.NotNil(t, site.LastSettlementDate)
	assert.Equal(t, day(2026, time.January, 21), *site.LastSettlementDate)
}

func TestRecordPayment_AdvanceDrawnFirst(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Issue(ctx, issueReq("Ram Kumar", 50, day(2026, time.January, 1)))
	require.NoError(t, err)

	// Park 1000 in the pool via overpayment.
	_, err = f.svc.RecordPayment(ctx, PaymentRequest{
		CustomerID: res.CustomerID,
		SiteID:     res.SiteID,
		Amount:     types.MustMoney("4100"),
	})
	require.NoError(t, err)

	// Generate fresh charges on the same cycle: return with loading charge.
	require.NoError(t, f.svc.Return(ctx, ReturnRequest{
		CustomerID:       res.CustomerID,
		SiteID:           res.SiteID,
		MaterialTypeID:   "plate-3x2",
		QuantityReturned: 10,
		ReturnDate:       day(2026, time.January, 10),
	}))

	// Return LC is 20; pool money must cover it before the new payment.
	pr, err := f.svc.RecordPayment(ctx, PaymentRequest{
		CustomerID: res.CustomerID,
		SiteID:     res.SiteID,
		Amount:     types.Zero(),
	})
	require.NoError(t, err)
	assert.True(t, pr.AdvanceApplied.Equal(types.MustMoney("20")), "got %s", pr.AdvanceApplied)

	cust, _ := f.customers.GetByID(ctx, res.CustomerID)
	assert.True(t, cust.AdvanceDeposit.Equal(types.MustMoney("980")), "got %s", cust.AdvanceDeposit)
}
