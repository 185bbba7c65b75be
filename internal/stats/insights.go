package stats

import (
	"fmt"

	"budgetpace/internal/core"
)

// Insight thresholds.
const (
	BudgetWarningPercent = 90
	BudgetDangerPercent  = 100

	// TopCategorySharePercent is exclusive: the top category must take
	// strictly more than this share of spending.
	TopCategorySharePercent = 40
	// TopCategoryMinSpendCents keeps tiny totals from producing noise.
	TopCategoryMinSpendCents = 10000
)

const (
	InsightBudget      = "budget"
	InsightTopCategory = "top_category"

	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityDanger  = "danger"
)

type Insight struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Insights derives the advisory messages for a payload. buckets must already
// be merged and sorted, largest first.
func Insights(percentOfBudget *int64, spentCents int64, buckets []core.CategoryBucket) []Insight {
	out := []Insight{}

	if percentOfBudget != nil && *percentOfBudget >= BudgetWarningPercent {
		in := Insight{
			Kind:     InsightBudget,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("You've used %d%% of your budget", *percentOfBudget),
		}
		if *percentOfBudget >= BudgetDangerPercent {
			in.Severity = SeverityDanger
			in.Message = "You've exceeded your budget!"
		}
		out = append(out, in)
	}

	if len(buckets) > 0 && spentCents > TopCategoryMinSpendCents {
		top := buckets[0]
		if top.TotalCents*100 > TopCategorySharePercent*spentCents {
			share := core.RoundPercent(top.TotalCents, spentCents)
			out = append(out, Insight{
				Kind:     InsightTopCategory,
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("%s accounts for %d%% of spending", top.Category, *share),
			})
		}
	}
	return out
}
