package stock

import (
	"context"

	"github.com/Juman-Kalita/Slab/internal/core/types"
)

// Repository defines operations for the stock register.
type Repository interface {
	// GetBalance returns the current balance for a material type.
	// Unknown material types report zero.
	GetBalance(ctx context.Context, materialTypeID string) (Balance, error)

	// GetBalanceForUpdate returns the balance with a row lock.
	GetBalanceForUpdate(ctx context.Context, materialTypeID string) (Balance, error)

	// ListBalances returns all balances ordered by material type.
	ListBalances(ctx context.Context) ([]Balance, error)

	// AdjustBalance applies delta atomically with a floor of zero.
	// Returns false without mutating when the decrement would go negative.
	AdjustBalance(ctx context.Context, materialTypeID string, delta types.Quantity) (bool, error)

	// SetBalance sets the absolute quantity (restock/correction).
	SetBalance(ctx context.Context, materialTypeID string, quantity types.Quantity) error
}
