package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"budgetpace/internal/core"

	"golang.org/x/sync/errgroup"
)

// Payload is the composed analytics for one owner and one period.
type Payload struct {
	Period       core.BudgetPeriod
	Window       core.Window
	CurrencyCode string
	BudgetPeriod core.BudgetPeriod

	SpentCents      int64
	IncomeCents     int64
	NetBalanceCents int64
	PercentOfIncome *int64
	PercentOfBudget *int64
	BudgetCents     int64
	RemainingCents  int64

	ExpectedExpensesCents int64
	ExpectedIncomeCents   int64

	ProjectedSpendingCents int64
	DaysElapsed            int
	DaysTotal              int

	DayBuckets      []core.DayBucket
	CategoryBuckets []core.CategoryBucket
	Insights        []Insight
}

// Composer merges window aggregates, recurring projections and budget
// settings into a Payload.
type Composer struct {
	store     Store
	aggregate *Aggregator
	project   *Projector
	now       func() time.Time
}

type Option func(*Composer)

// WithClock replaces the wall clock used to resolve current windows and pacing.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

func NewComposer(store Store, opts ...Option) *Composer {
	c := &Composer{
		store:     store,
		aggregate: NewAggregator(store),
		project:   NewProjector(store),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose builds the payload for period. custom, when non-nil, replaces the
// current week or month window.
func (c *Composer) Compose(ctx context.Context, owner string, period core.BudgetPeriod, custom *core.Window) (Payload, error) {
	if !period.Valid() {
		return Payload{}, fmt.Errorf("compose: %w", core.ErrInvalidPeriod)
	}
	now := c.now().UTC()

	settings, err := c.store.Settings(ctx, owner)
	if err != nil {
		return Payload{}, fmt.Errorf("settings: %w", err)
	}

	w := c.resolveWindow(now, period, settings, custom)

	var (
		agg         Aggregate
		expExpenses int64
		expIncome   int64
		customs     []core.CustomCategory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		agg, err = c.aggregate.Aggregate(gctx, owner, w)
		return err
	})
	g.Go(func() (err error) {
		expExpenses, err = c.project.Expected(gctx, owner, core.Expense, period)
		return err
	})
	g.Go(func() (err error) {
		expIncome, err = c.project.Expected(gctx, owner, core.Income, period)
		return err
	})
	g.Go(func() (err error) {
		customs, err = c.store.ListCustomCategories(gctx, owner, core.Expense)
		if err != nil {
			return fmt.Errorf("custom categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "Stats composition failed",
			"owner", owner,
			"period", period,
			"error", err)
		return Payload{}, err
	}

	p := Payload{
		Period:                period,
		Window:                w,
		CurrencyCode:          settings.CurrencyCode,
		BudgetPeriod:          settings.Period,
		SpentCents:            agg.SpentCents,
		IncomeCents:           agg.IncomeCents,
		NetBalanceCents:       agg.IncomeCents - agg.SpentCents,
		PercentOfIncome:       core.RoundPercent(agg.SpentCents, agg.IncomeCents),
		BudgetCents:           BudgetFor(settings, period),
		ExpectedExpensesCents: expExpenses,
		ExpectedIncomeCents:   expIncome,
		DaysTotal:             w.Days(),
		DaysElapsed:           w.DaysElapsed(now),
		DayBuckets:            agg.Days,
		CategoryBuckets:       core.MergeBuckets(agg.Categories, customs, core.Expense),
	}
	p.PercentOfBudget = core.RoundPercent(p.SpentCents, p.BudgetCents)
	p.RemainingCents = max(p.BudgetCents-p.SpentCents, 0)
	p.ProjectedSpendingCents = core.Project(p.SpentCents, p.DaysElapsed, p.DaysTotal)
	p.Insights = Insights(p.PercentOfBudget, p.SpentCents, p.CategoryBuckets)

	return p, nil
}

// Categories returns all-time merged buckets of one type.
func (c *Composer) Categories(ctx context.Context, owner string, t core.TxType) ([]core.CategoryBucket, error) {
	var (
		raw     []core.CategoryBucket
		customs []core.CustomCategory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		raw, err = c.store.CategoryTotals(gctx, owner, t, nil)
		return err
	})
	g.Go(func() (err error) {
		customs, err = c.store.ListCustomCategories(gctx, owner, t)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	return core.MergeBuckets(raw, customs, t), nil
}

func (c *Composer) resolveWindow(now time.Time, period core.BudgetPeriod, s core.BudgetSettings, custom *core.Window) core.Window {
	switch {
	case custom != nil:
		return *custom
	case period == core.PeriodMonthly:
		return core.MonthWindow(now)
	default:
		return core.WeekWindow(now, s.WeekStart)
	}
}

// BudgetFor resolves the budget that applies to period. The configured
// period uses its stored amount; the other one is converted from it.
func BudgetFor(s core.BudgetSettings, period core.BudgetPeriod) int64 {
	if s.Period == period {
		return s.ActiveBudget().Cents
	}
	return core.ConvertBudget(s.ActiveBudget().Cents, s.Period, period)
}
