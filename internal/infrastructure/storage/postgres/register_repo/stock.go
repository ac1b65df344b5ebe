// Package register_repo provides PostgreSQL implementations for register
// repositories.
package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Juman-Kalita/Slab/internal/core/types"
	"github.com/Juman-Kalita/Slab/internal/domain/registers/stock"
	"github.com/Juman-Kalita/Slab/internal/infrastructure/storage/postgres"
)

const stockBalancesTable = "reg_stock_balances"

// Compile-time check.
var _ stock.Repository = (*StockRepo)(nil)

// StockRepo implements stock.Repository.
type StockRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetBalance returns the current balance; unknown material types report zero.
func (r *StockRepo) GetBalance(ctx context.Context, materialTypeID string) (stock.Balance, error) {
	var balance stock.Balance

	q := r.builder.Select("material_type_id", "quantity", "updated_at").
		From(stockBalancesTable).
		Where(squirrel.Eq{"material_type_id": materialTypeID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return balance, fmt.Errorf("build query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &balance, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return stock.Balance{MaterialTypeID: materialTypeID, Quantity: 0}, nil
		}
		return balance, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// GetBalanceForUpdate returns balance with pessimistic lock.
func (r *StockRepo) GetBalanceForUpdate(ctx context.Context, materialTypeID string) (stock.Balance, error) {
	var balance stock.Balance

	sql := `
		SELECT material_type_id, quantity, updated_at
		FROM reg_stock_balances
		WHERE material_type_id = $1
		FOR UPDATE
	`

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &balance, sql, materialTypeID); err != nil {
		if pgxscan.NotFound(err) {
			return stock.Balance{MaterialTypeID: materialTypeID, Quantity: 0}, nil
		}
		return balance, fmt.Errorf("get balance for update: %w", err)
	}

	return balance, nil
}

// ListBalances returns all balances ordered by material type.
func (r *StockRepo) ListBalances(ctx context.Context) ([]stock.Balance, error) {
	q := r.builder.Select("material_type_id", "quantity", "updated_at").
		From(stockBalancesTable).
		OrderBy("material_type_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []stock.Balance
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return balances, nil
}

// AdjustBalance applies delta atomically with a floor of zero.
// Credits upsert the row; debits are a conditional UPDATE so a concurrent
// issue can never drive the counter negative.
func (r *StockRepo) AdjustBalance(ctx context.Context, materialTypeID string, delta types.Quantity) (bool, error) {
	querier := r.txm.GetQuerier(ctx)

	if !delta.IsNegative() {
		sql := `
			INSERT INTO reg_stock_balances (material_type_id, quantity, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (material_type_id)
			DO UPDATE SET quantity = reg_stock_balances.quantity + $2, updated_at = $3
		`
		if _, err := querier.Exec(ctx, sql, materialTypeID, delta.Int64(), time.Now().UTC()); err != nil {
			return false, fmt.Errorf("credit balance: %w", err)
		}
		return true, nil
	}

	sql := `
		UPDATE reg_stock_balances
		SET quantity = quantity + $2, updated_at = $3
		WHERE material_type_id = $1 AND quantity + $2 >= 0
	`
	tag, err := querier.Exec(ctx, sql, materialTypeID, delta.Int64(), time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("debit balance: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetBalance sets the absolute quantity (restock/correction).
func (r *StockRepo) SetBalance(ctx context.Context, materialTypeID string, quantity types.Quantity) error {
	sql := `
		INSERT INTO reg_stock_balances (material_type_id, quantity, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (material_type_id)
		DO UPDATE SET quantity = $2, updated_at = $3
	`
	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, materialTypeID, quantity.Int64(), time.Now().UTC()); err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}
