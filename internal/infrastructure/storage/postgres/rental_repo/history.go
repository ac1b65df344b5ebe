package rental_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Juman-Kalita/Slab/internal/core/id"
	"github.com/Juman-Kalita/Slab/internal/domain/rental"
)

var historyColumns = []string{
	"id", "site_id", "date", "action",
	"material_type_id", "quantity", "quantity_lost", "has_own_labor",
	"amount", "payment_method", "document_no",
}

// AppendEvents appends history events.
// Inside a transaction the COPY protocol is used; one issue with deposit and
// advance application can produce several rows at once.
func (r *Repo) AppendEvents(ctx context.Context, events []rental.HistoryEvent) error {
	if len(events) == 0 {
		return nil
	}

	if r.txm.GetTx(ctx) != nil {
		rows := make([][]any, 0, len(events))
		for _, e := range events {
			rows = append(rows, []any{
				e.ID, e.SiteID, e.Date, string(e.Action),
				e.MaterialTypeID, e.Quantity.Int64(), e.QuantityLost.Int64(), e.HasOwnLabor,
				e.Amount, e.PaymentMethod, e.DocumentNo,
			})
		}

		n, err := r.batch.CopyFromSlice(ctx, historyTable, historyColumns, rows)
		if err != nil {
			return fmt.Errorf("copy history events: %w", err)
		}
		if n != int64(len(events)) {
			return fmt.Errorf("copy history events: inserted %d of %d", n, len(events))
		}
		return nil
	}

	q := r.builder.
		Insert(historyTable).
		Columns(historyColumns...)
	for _, e := range events {
		q = q.Values(
			e.ID, e.SiteID, e.Date, string(e.Action),
			e.MaterialTypeID, e.Quantity.Int64(), e.QuantityLost.Int64(), e.HasOwnLabor,
			e.Amount, e.PaymentMethod, e.DocumentNo,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert history events: %w", err)
	}
	return nil
}

// ListEvents returns a site's history ordered by date.
func (r *Repo) ListEvents(ctx context.Context, siteID id.ID) ([]rental.HistoryEvent, error) {
	q := r.builder.
		Select(historyColumns...).
		From(historyTable).
		Where(squirrel.Eq{"site_id": siteID}).
		OrderBy("date", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var events []rental.HistoryEvent
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &events, sql, args...); err != nil {
		return nil, fmt.Errorf("select history events: %w", err)
	}
	return events, nil
}
