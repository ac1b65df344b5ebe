package stock

import (
	"context"
	"fmt"

	"github.com/Juman-Kalita/Slab/internal/core/apperror"
	"github.com/Juman-Kalita/Slab/internal/core/types"
	"github.com/Juman-Kalita/Slab/pkg/logger"
)

// Service provides business operations for the stock register.
// Transactions are managed by the caller: issue and return operations
// adjust stock as the last step of their own transaction.
type Service struct {
	repo Repository
}

// NewService creates a new stock register service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Available returns the available quantity for a material type.
func (s *Service) Available(ctx context.Context, materialTypeID string) (types.Quantity, error) {
	b, err := s.repo.GetBalance(ctx, materialTypeID)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return b.Quantity, nil
}

// List returns all current balances.
func (s *Service) List(ctx context.Context) ([]Balance, error) {
	return s.repo.ListBalances(ctx)
}

// Deduction is one line of an issue's stock requirement.
type Deduction struct {
	MaterialTypeID string
	Quantity       types.Quantity
}

// CheckAndDeduct verifies availability for every line, then deducts.
// Called within the issue transaction; the repository's floor-zero update
// is the final guard against concurrent issues racing past the check.
func (s *Service) CheckAndDeduct(ctx context.Context, lines []Deduction) error {
	for _, line := range lines {
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("deduction quantity must be positive").
				WithDetail("material_type_id", line.MaterialTypeID)
		}

		b, err := s.repo.GetBalanceForUpdate(ctx, line.MaterialTypeID)
		if err != nil {
			return fmt.Errorf("get balance for %s: %w", line.MaterialTypeID, err)
		}
		if b.Quantity < line.Quantity {
			return apperror.NewInsufficientStock(
				line.MaterialTypeID,
				line.Quantity.Int64(),
				b.Quantity.Int64(),
			)
		}
	}

	for _, line := range lines {
		ok, err := s.repo.AdjustBalance(ctx, line.MaterialTypeID, line.Quantity.Neg())
		if err != nil {
			return fmt.Errorf("deduct %s: %w", line.MaterialTypeID, err)
		}
		if !ok {
			// The locked check above should make this unreachable.
			return apperror.NewInsufficientStock(line.MaterialTypeID, line.Quantity.Int64(), 0)
		}
	}

	logger.Info(ctx, "deducted stock", "lines", len(lines))
	return nil
}

// Credit returns quantity to the yard after a non-lost return.
func (s *Service) Credit(ctx context.Context, materialTypeID string, qty types.Quantity) error {
	if qty.IsZero() {
		return nil
	}
	if qty.IsNegative() {
		return apperror.NewValidation("credit quantity cannot be negative").
			WithDetail("material_type_id", materialTypeID)
	}

	if _, err := s.repo.AdjustBalance(ctx, materialTypeID, qty); err != nil {
		return fmt.Errorf("credit %s: %w", materialTypeID, err)
	}

	logger.Info(ctx, "credited stock", "material_type_id", materialTypeID, "quantity", qty)
	return nil
}

// Set overrides the absolute quantity for a material type.
// Used by the inventory screen for restocks and corrections.
func (s *Service) Set(ctx context.Context, materialTypeID string, qty types.Quantity) error {
	if materialTypeID == "" {
		return apperror.NewValidation("material type id is required")
	}
	if qty.IsNegative() {
		return apperror.NewValidation("stock quantity cannot be negative").
			WithDetail("material_type_id", materialTypeID)
	}

	if err := s.repo.SetBalance(ctx, materialTypeID, qty); err != nil {
		return fmt.Errorf("set balance: %w", err)
	}

	logger.Info(ctx, "set stock balance", "material_type_id", materialTypeID, "quantity", qty)
	return nil
}
