package stats

import (
	"context"
	"fmt"

	"budgetpace/internal/core"

	"golang.org/x/sync/errgroup"
)

// Aggregate is the raw result of one window: totals, dense day buckets and
// unmerged expense category buckets.
type Aggregate struct {
	Window      core.Window
	SpentCents  int64
	IncomeCents int64
	Days        []core.DayBucket
	Categories  []core.CategoryBucket
}

type Aggregator struct {
	store Store
}

func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// Aggregate runs the four window queries concurrently. Any failure fails
// the whole aggregate.
func (a *Aggregator) Aggregate(ctx context.Context, owner string, w core.Window) (Aggregate, error) {
	var (
		out    = Aggregate{Window: w}
		sparse []core.DayTotals
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := a.store.SumByType(gctx, owner, core.Expense, w)
		if err != nil {
			return fmt.Errorf("spent: %w", err)
		}
		out.SpentCents = v
		return nil
	})
	g.Go(func() error {
		v, err := a.store.SumByType(gctx, owner, core.Income, w)
		if err != nil {
			return fmt.Errorf("income: %w", err)
		}
		out.IncomeCents = v
		return nil
	})
	g.Go(func() error {
		v, err := a.store.DailyTotals(gctx, owner, w)
		if err != nil {
			return fmt.Errorf("daily totals: %w", err)
		}
		sparse = v
		return nil
	})
	g.Go(func() error {
		v, err := a.store.CategoryTotals(gctx, owner, core.Expense, &w)
		if err != nil {
			return fmt.Errorf("category totals: %w", err)
		}
		out.Categories = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return Aggregate{}, err
	}

	out.Days = w.DenseDays(sparse)
	if out.Categories == nil {
		out.Categories = []core.CategoryBucket{}
	}
	return out, nil
}
