package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/Juman-Kalita/Slab/internal/core/apperror"
	"github.com/Juman-Kalita/Slab/internal/core/id"
	"github.com/Juman-Kalita/Slab/internal/domain/catalogs/customer"
	"github.com/Juman-Kalita/Slab/internal/infrastructure/storage/postgres"
)

const customerTable = "cat_customers"

// Compile-time check.
var _ customer.Repository = (*CustomerRepo)(nil)

// CustomerRepo implements customer.Repository.
// Aadhaar photo scans are compressed transparently on the way in and out.
type CustomerRepo struct {
	base     *BaseCatalogRepo[*customer.Customer]
	archiver *postgres.PhotoArchiver
}

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txm *postgres.TxManager, archiver *postgres.PhotoArchiver) *CustomerRepo {
	return &CustomerRepo{
		base: NewBaseCatalogRepo[*customer.Customer](
			txm,
			customerTable,
			postgres.ExtractDBColumns[customer.Customer](),
			func() *customer.Customer { return &customer.Customer{} },
		),
		archiver: archiver,
	}
}

// Create inserts a new customer.
func (r *CustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	packed := *c
	packed.AadharPhoto = r.archiver.Pack(c.AadharPhoto)
	return r.base.Create(ctx, &packed)
}

// Update saves customer changes with optimistic locking.
func (r *CustomerRepo) Update(ctx context.Context, c *customer.Customer) error {
	packed := *c
	packed.AadharPhoto = r.archiver.Pack(c.AadharPhoto)
	if err := r.base.Update(ctx, &packed); err != nil {
		return err
	}
	c.SetVersion(c.Version + 1)
	return nil
}

// GetByID returns a customer by ID.
func (r *CustomerRepo) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	c, err := r.base.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return r.unpackPhoto(c)
}

// GetByIDForUpdate returns a customer with a row lock.
func (r *CustomerRepo) GetByIDForUpdate(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	c, err := r.base.GetForUpdate(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return r.unpackPhoto(c)
}

// FindByName returns a customer by case-insensitive name match.
func (r *CustomerRepo) FindByName(ctx context.Context, name string) (*customer.Customer, error) {
	q := r.base.baseSelect().
		Where(squirrel.Expr("lower(name) = lower(?)", name)).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	c, err := r.base.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("customer", name)
		}
		return nil, err
	}
	return r.unpackPhoto(c)
}

// List returns all customers ordered by name.
func (r *CustomerRepo) List(ctx context.Context) ([]*customer.Customer, error) {
	q := r.base.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name")

	customers, err := r.base.FindMany(ctx, q)
	if err != nil {
		return nil, err
	}

	for _, c := range customers {
		if _, err := r.unpackPhoto(c); err != nil {
			return nil, err
		}
	}
	return customers, nil
}

func (r *CustomerRepo) unpackPhoto(c *customer.Customer) (*customer.Customer, error) {
	raw, err := r.archiver.Unpack(c.AadharPhoto)
	if err != nil {
		return nil, err
	}
	c.AadharPhoto = raw
	return c, nil
}
