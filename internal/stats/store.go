// Package stats turns an owner's transactions into budget analytics: period
// totals, recurring projections, pacing and insights.
package stats

import (
	"context"

	"budgetpace/internal/core"
)

// Store is the read side the analytics need. Every method is owner scoped.
type Store interface {
	SumByType(ctx context.Context, owner string, t core.TxType, w core.Window) (int64, error)
	DailyTotals(ctx context.Context, owner string, w core.Window) ([]core.DayTotals, error)
	CategoryTotals(ctx context.Context, owner string, t core.TxType, w *core.Window) ([]core.CategoryBucket, error)
	RecurringItems(ctx context.Context, owner string, t core.TxType) ([]core.RecurringItem, error)
	Settings(ctx context.Context, owner string) (core.BudgetSettings, error)
	ListCustomCategories(ctx context.Context, owner string, t core.TxType) ([]core.CustomCategory, error)
}
