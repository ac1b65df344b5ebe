package customer

import (
	"context"

	"github.com/Juman-Kalita/Slab/internal/core/id"
)

// Repository defines storage operations for the customer catalog.
type Repository interface {
	// Create inserts a new customer.
	Create(ctx context.Context, c *Customer) error

	// Update saves customer changes (metadata, advance deposit).
	Update(ctx context.Context, c *Customer) error

	// GetByID returns a customer, NotFound error if absent.
	GetByID(ctx context.Context, customerID id.ID) (*Customer, error)

	// GetByIDForUpdate returns a customer with a row lock.
	// Issue and payment operations lock the customer row to serialize
	// advance-deposit mutations.
	GetByIDForUpdate(ctx context.Context, customerID id.ID) (*Customer, error)

	// FindByName returns a customer by case-insensitive name match,
	// NotFound error if absent.
	FindByName(ctx context.Context, name string) (*Customer, error)

	// List returns all customers ordered by name.
	List(ctx context.Context) ([]*Customer, error)
}
