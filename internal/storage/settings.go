package storage

import (
	"context"
	"fmt"

	"budgetpace/internal/core"
)

// Settings returns the owner's budget settings, creating the default row on
// first access.
func (r *SQLiteRepository) Settings(ctx context.Context, owner string) (core.BudgetSettings, error) {
	d := core.DefaultSettings(owner)
	now := r.timestamp()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO budget_settings (owner, currency_code, weekly_budget_cents, monthly_budget_cents, budget_period, week_start, created_at, updated_at)
		 VALUES (?, ?, 0, 0, ?, ?, ?, ?)
		 ON CONFLICT (owner) DO NOTHING`,
		owner, d.CurrencyCode, string(d.Period), d.WeekStart, now, now); err != nil {
		return core.BudgetSettings{}, fmt.Errorf("ensure settings: %w", err)
	}

	var (
		s       core.BudgetSettings
		period  string
		updated string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT owner, currency_code, weekly_budget_cents, monthly_budget_cents, budget_period, week_start, updated_at
		 FROM budget_settings WHERE owner = ?`, owner).
		Scan(&s.Owner, &s.CurrencyCode, &s.WeeklyBudget.Cents, &s.MonthlyBudget.Cents, &period, &s.WeekStart, &updated)
	if err != nil {
		return core.BudgetSettings{}, fmt.Errorf("get settings: %w", err)
	}
	s.Period = core.BudgetPeriod(period)
	if s.UpdatedAt, err = parseTime(updated); err != nil {
		return core.BudgetSettings{}, err
	}
	return s, nil
}

// SaveSettings writes every field of s, creating the row if needed.
func (r *SQLiteRepository) SaveSettings(ctx context.Context, s core.BudgetSettings) (core.BudgetSettings, error) {
	now := r.timestamp()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budget_settings (owner, currency_code, weekly_budget_cents, monthly_budget_cents, budget_period, week_start, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (owner) DO UPDATE SET
		     currency_code = excluded.currency_code,
		     weekly_budget_cents = excluded.weekly_budget_cents,
		     monthly_budget_cents = excluded.monthly_budget_cents,
		     budget_period = excluded.budget_period,
		     week_start = excluded.week_start,
		     updated_at = excluded.updated_at`,
		s.Owner, s.CurrencyCode, s.WeeklyBudget.Cents, s.MonthlyBudget.Cents, string(s.Period), s.WeekStart, now, now)
	if err != nil {
		return core.BudgetSettings{}, fmt.Errorf("save settings: %w", err)
	}
	return r.Settings(ctx, s.Owner)
}
