package stats

import (
	"encoding/json"
	"time"

	"budgetpace/internal/core"
)

// Payload timestamps are ISO-8601 UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z"

type totalsJSON struct {
	SpentCents      int64  `json:"spent_cents"`
	IncomeCents     int64  `json:"income_cents"`
	NetBalanceCents int64  `json:"net_balance_cents"`
	PercentOfIncome *int64 `json:"spending_percent_of_income"`
	PercentOfBudget *int64 `json:"spending_percent_of_budget"`
	BudgetCents     int64  `json:"budget_cents"`
	RemainingCents  int64  `json:"remaining_cents"`
}

type pacingJSON struct {
	ProjectedSpendingCents int64                 `json:"projected_spending_cents"`
	DaysElapsed            int                   `json:"days_elapsed"`
	DaysTotal              int                   `json:"days_total"`
	DayBuckets             []core.DayBucket      `json:"day_buckets"`
	CategoryBuckets        []core.CategoryBucket `json:"category_buckets"`
	Insights               []Insight             `json:"insights"`
	CurrencyCode           string                `json:"currency_code"`
	BudgetPeriod           core.BudgetPeriod     `json:"budget_period"`
}

type weeklyJSON struct {
	WeekStart string `json:"week_start"`
	WeekEnd   string `json:"week_end"`
	totalsJSON
	ExpectedExpensesCents int64 `json:"expected_weekly_expenses_cents"`
	ExpectedIncomeCents   int64 `json:"expected_weekly_income_cents"`
	pacingJSON
}

type monthlyJSON struct {
	MonthStart string `json:"month_start"`
	MonthEnd   string `json:"month_end"`
	totalsJSON
	ExpectedExpensesCents int64 `json:"expected_monthly_expenses_cents"`
	ExpectedIncomeCents   int64 `json:"expected_monthly_income_cents"`
	pacingJSON
}

// MarshalJSON names window and projection fields after the period.
func (p Payload) MarshalJSON() ([]byte, error) {
	totals := totalsJSON{
		SpentCents:      p.SpentCents,
		IncomeCents:     p.IncomeCents,
		NetBalanceCents: p.NetBalanceCents,
		PercentOfIncome: p.PercentOfIncome,
		PercentOfBudget: p.PercentOfBudget,
		BudgetCents:     p.BudgetCents,
		RemainingCents:  p.RemainingCents,
	}
	pacing := pacingJSON{
		ProjectedSpendingCents: p.ProjectedSpendingCents,
		DaysElapsed:            p.DaysElapsed,
		DaysTotal:              p.DaysTotal,
		DayBuckets:             nonNil(p.DayBuckets),
		CategoryBuckets:        nonNil(p.CategoryBuckets),
		Insights:               nonNil(p.Insights),
		CurrencyCode:           p.CurrencyCode,
		BudgetPeriod:           p.BudgetPeriod,
	}
	start, end := formatTimestamp(p.Window.Start), formatTimestamp(p.Window.End)

	if p.Period == core.PeriodMonthly {
		return json.Marshal(monthlyJSON{
			MonthStart:            start,
			MonthEnd:              end,
			totalsJSON:            totals,
			ExpectedExpensesCents: p.ExpectedExpensesCents,
			ExpectedIncomeCents:   p.ExpectedIncomeCents,
			pacingJSON:            pacing,
		})
	}
	return json.Marshal(weeklyJSON{
		WeekStart:             start,
		WeekEnd:               end,
		totalsJSON:            totals,
		ExpectedExpensesCents: p.ExpectedExpensesCents,
		ExpectedIncomeCents:   p.ExpectedIncomeCents,
		pacingJSON:            pacing,
	})
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
