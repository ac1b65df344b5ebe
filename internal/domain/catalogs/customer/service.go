package customer

import (
	"context"
	"fmt"
	"time"

	"github.com/Juman-Kalita/Slab/internal/core/apperror"
	"github.com/Juman-Kalita/Slab/internal/core/id"
	"github.com/Juman-Kalita/Slab/pkg/logger"
	"github.com/Juman-Kalita/Slab/pkg/numerator"
)

// Service provides business logic for the customer catalog.
type Service struct {
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new customer service.
func NewService(repo Repository, num *numerator.Service) *Service {
	return &Service{
		repo:      repo,
		numerator: num,
	}
}

// Get returns a customer by ID.
func (s *Service) Get(ctx context.Context, customerID id.ID) (*Customer, error) {
	return s.repo.GetByID(ctx, customerID)
}

// LockForUpdate returns a customer with a row lock held for the current
// transaction. Rental operations lock the customer before touching the
// advance-deposit pool.
func (s *Service) LockForUpdate(ctx context.Context, customerID id.ID) (*Customer, error) {
	return s.repo.GetByIDForUpdate(ctx, customerID)
}

// Save persists customer changes made inside an operation transaction.
func (s *Service) Save(ctx context.Context, c *Customer) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// List returns all customers.
func (s *Service) List(ctx context.Context) ([]*Customer, error) {
	return s.repo.List(ctx)
}

// FindByName returns a customer by case-insensitive name.
func (s *Service) FindByName(ctx context.Context, name string) (*Customer, error) {
	if NormalizeName(name) == "" {
		return nil, apperror.NewValidation("customer name is required")
	}
	return s.repo.FindByName(ctx, name)
}

// ResolveOrCreate finds a customer by case-insensitive name, creating one
// when absent. Optional registration details are applied to empty fields
// either way. Must be called inside the operation transaction.
func (s *Service) ResolveOrCreate(ctx context.Context, name string, details Details) (*Customer, error) {
	if NormalizeName(name) == "" {
		return nil, apperror.NewValidation("customer name is required")
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil && !apperror.IsNotFound(err) {
		return nil, fmt.Errorf("find customer: %w", err)
	}

	if err == nil {
		if existing.ApplyDetails(details) {
			if err := s.repo.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("update customer details: %w", err)
			}
		}
		return existing, nil
	}

	c := New(name)
	c.ApplyDetails(details)

	cfg := numerator.DefaultConfig("CUST")
	code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	c.Code = code

	if err := c.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	logger.Info(ctx, "created customer", "customer_id", c.ID, "name", c.Name)
	return c, nil
}
