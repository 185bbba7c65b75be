package core

import "github.com/shopspring/decimal"

// Calendar approximations shared by recurring projections and budget
// conversion. They must stay identical across both uses.
var (
	WeeksPerMonth   = decimal.RequireFromString("4.33")
	BiweeksPerMonth = decimal.RequireFromString("2.17")

	monthsPerQuarter = decimal.NewFromInt(3)
	monthsPerYear    = decimal.NewFromInt(12)
)

// RecurringItem is the amount and cadence of one active recurring entry.
type RecurringItem struct {
	AmountCents int64
	Frequency   Frequency
}

// TotalRunRate sums the monthly run rate of every item, rounding each one
// before adding.
func TotalRunRate(items []RecurringItem) int64 {
	var total int64
	for _, it := range items {
		total += MonthlyRunRate(it.AmountCents, it.Frequency)
	}
	return total
}

// MonthlyRunRate converts a recurring amount into its monthly equivalent.
// Each conversion rounds half away from zero to whole cents. Unknown
// frequencies contribute nothing.
func MonthlyRunRate(amountCents int64, f Frequency) int64 {
	amount := decimal.NewFromInt(amountCents)
	switch f {
	case Weekly:
		return round(amount.Mul(WeeksPerMonth))
	case Biweekly:
		return round(amount.Mul(BiweeksPerMonth))
	case Monthly:
		return amountCents
	case Quarterly:
		return round(amount.Div(monthsPerQuarter))
	case Annually:
		return round(amount.Div(monthsPerYear))
	}
	return 0
}

// WeeklyFromMonthly derives a weekly figure from a monthly one.
func WeeklyFromMonthly(monthlyCents int64) int64 {
	return round(decimal.NewFromInt(monthlyCents).Div(WeeksPerMonth))
}

// MonthlyFromWeekly is the inverse of WeeklyFromMonthly, up to rounding.
func MonthlyFromWeekly(weeklyCents int64) int64 {
	return round(decimal.NewFromInt(weeklyCents).Mul(WeeksPerMonth))
}

// ConvertBudget re-expresses an amount stored for one budget period in
// another period's granularity.
func ConvertBudget(amountCents int64, from, to BudgetPeriod) int64 {
	switch {
	case from == to:
		return amountCents
	case from == PeriodWeekly && to == PeriodMonthly:
		return MonthlyFromWeekly(amountCents)
	case from == PeriodMonthly && to == PeriodWeekly:
		return WeeklyFromMonthly(amountCents)
	}
	return amountCents
}

// ScaleMonthly expresses a monthly figure at the given period granularity.
func ScaleMonthly(monthlyCents int64, to BudgetPeriod) int64 {
	return ConvertBudget(monthlyCents, PeriodMonthly, to)
}

// RoundPercent returns round(part/whole*100), or nil when whole is zero.
func RoundPercent(part, whole int64) *int64 {
	if whole <= 0 {
		return nil
	}
	p := round(decimal.NewFromInt(part).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(whole)))
	return &p
}

// Project extrapolates spend over a window from the days observed so far.
func Project(spentCents int64, daysElapsed, daysTotal int) int64 {
	if daysElapsed <= 0 {
		daysElapsed = 1
	}
	total := decimal.NewFromInt(spentCents).Mul(decimal.NewFromInt(int64(daysTotal)))
	return round(total.Div(decimal.NewFromInt(int64(daysElapsed))))
}

func round(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
