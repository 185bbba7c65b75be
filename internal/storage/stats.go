package storage

import (
	"context"
	"fmt"

	"budgetpace/internal/core"
)

// SumByType totals amounts of one type inside the window.
func (r *SQLiteRepository) SumByType(ctx context.Context, owner string, t core.TxType, w core.Window) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		 WHERE owner = ? AND type = ? AND occurred_at >= ? AND occurred_at < ?`,
		owner, string(t), formatTime(w.Start), formatTime(w.End)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum %s: %w", t, err)
	}
	return total, nil
}

// DailyTotals returns per-day expense and income sums for days that have rows.
func (r *SQLiteRepository) DailyTotals(ctx context.Context, owner string, w core.Window) ([]core.DayTotals, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT substr(occurred_at, 1, 10) AS day,
		        COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0)
		 FROM transactions
		 WHERE owner = ? AND occurred_at >= ? AND occurred_at < ?
		 GROUP BY day
		 ORDER BY day`,
		owner, formatTime(w.Start), formatTime(w.End))
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	defer rows.Close()

	var out []core.DayTotals
	for rows.Next() {
		var d core.DayTotals
		if err := rows.Scan(&d.Day, &d.ExpenseCents, &d.IncomeCents); err != nil {
			return nil, fmt.Errorf("scan daily totals: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CategoryTotals groups amounts of one type by their stored category label,
// largest first. A nil window covers all time. Labels are returned raw.
func (r *SQLiteRepository) CategoryTotals(ctx context.Context, owner string, t core.TxType, w *core.Window) ([]core.CategoryBucket, error) {
	query := `SELECT category, COALESCE(SUM(amount_cents), 0) AS total FROM transactions WHERE owner = ? AND type = ?`
	args := []any{owner, string(t)}
	if w != nil {
		query += ` AND occurred_at >= ? AND occurred_at < ?`
		args = append(args, formatTime(w.Start), formatTime(w.End))
	}
	query += ` GROUP BY category ORDER BY total DESC, category ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryBucket
	for rows.Next() {
		var b core.CategoryBucket
		if err := rows.Scan(&b.Category, &b.TotalCents); err != nil {
			return nil, fmt.Errorf("scan category totals: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// RecurringItems lists every active recurring row of a type, regardless of date.
func (r *SQLiteRepository) RecurringItems(ctx context.Context, owner string, t core.TxType) ([]core.RecurringItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT amount_cents, recurrence_frequency FROM transactions
		 WHERE owner = ? AND type = ? AND is_recurring = 1 AND recurrence_frequency IS NOT NULL`,
		owner, string(t))
	if err != nil {
		return nil, fmt.Errorf("recurring items: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringItem
	for rows.Next() {
		var (
			it   core.RecurringItem
			freq string
		)
		if err := rows.Scan(&it.AmountCents, &freq); err != nil {
			return nil, fmt.Errorf("scan recurring item: %w", err)
		}
		it.Frequency = core.Frequency(freq)
		out = append(out, it)
	}
	return out, rows.Err()
}
