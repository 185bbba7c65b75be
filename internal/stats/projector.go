package stats

import (
	"context"
	"fmt"

	"budgetpace/internal/core"
)

// Projector estimates going-forward monthly totals from active recurring
// entries. It ignores the requested stats window on purpose: a recurring
// item counts as long as it exists.
type Projector struct {
	store Store
}

func NewProjector(store Store) *Projector {
	return &Projector{store: store}
}

func (p *Projector) ExpectedMonthly(ctx context.Context, owner string, t core.TxType) (int64, error) {
	items, err := p.store.RecurringItems(ctx, owner, t)
	if err != nil {
		return 0, fmt.Errorf("recurring %s: %w", t, err)
	}
	return core.TotalRunRate(items), nil
}

// Expected returns the projection scaled to the period's granularity.
func (p *Projector) Expected(ctx context.Context, owner string, t core.TxType, period core.BudgetPeriod) (int64, error) {
	monthly, err := p.ExpectedMonthly(ctx, owner, t)
	if err != nil {
		return 0, err
	}
	return core.ScaleMonthly(monthly, period), nil
}
