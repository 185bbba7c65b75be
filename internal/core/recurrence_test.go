package core

import "testing"

func TestMonthlyRunRate(t *testing.T) {
	cases := []struct {
		amount int64
		freq   Frequency
		want   int64
	}{
		{10000, Monthly, 10000},
		{10000, Weekly, 43300},
		{10000, Biweekly, 21700},
		{10000, Quarterly, 3333},
		{10000, Annually, 833},
		{50, Weekly, 217},   // 216.5 rounds away from zero
		{50, Biweekly, 109}, // 108.5
		{6, Annually, 1},    // 0.5
		{5, Quarterly, 2},   // 1.67
		{10000, "daily", 0},
		{10000, "", 0},
	}
	for _, tc := range cases {
		if got := MonthlyRunRate(tc.amount, tc.freq); got != tc.want {
			t.Errorf("MonthlyRunRate(%d, %q) = %d, want %d", tc.amount, tc.freq, got, tc.want)
		}
	}
}

func TestMonthlyRunRateMonotonic(t *testing.T) {
	for _, f := range []Frequency{Weekly, Biweekly, Monthly, Quarterly, Annually} {
		prev := MonthlyRunRate(0, f)
		for amount := int64(1); amount < 5000; amount += 7 {
			got := MonthlyRunRate(amount, f)
			if got < prev {
				t.Fatalf("%s: run rate decreased at %d (%d < %d)", f, amount, got, prev)
			}
			prev = got
		}
	}
}

func TestWeeklyFromMonthly(t *testing.T) {
	if got := WeeklyFromMonthly(300000); got != 69284 {
		t.Fatalf("WeeklyFromMonthly(300000) = %d, want 69284", got)
	}
	// weekly * 4.33 stays within a cent of the monthly figure it came from.
	for monthly := int64(0); monthly < 200000; monthly += 1237 {
		weekly := WeeklyFromMonthly(monthly)
		back := MonthlyFromWeekly(weekly)
		if diff := back - monthly; diff < -3 || diff > 3 {
			t.Fatalf("monthly %d -> weekly %d -> monthly %d drifts by %d", monthly, weekly, back, diff)
		}
		exact := float64(monthly) / 4.33
		if d := float64(weekly) - exact; d < -0.5 || d > 0.5 {
			t.Fatalf("weekly %d not the rounding of %f", weekly, exact)
		}
	}
}

func TestConvertBudget(t *testing.T) {
	cases := []struct {
		amount   int64
		from, to BudgetPeriod
		want     int64
	}{
		{10000, PeriodWeekly, PeriodWeekly, 10000},
		{10000, PeriodWeekly, PeriodMonthly, 43300},
		{43300, PeriodMonthly, PeriodWeekly, 10000},
		{100000, PeriodMonthly, PeriodWeekly, 23095},
		{0, PeriodMonthly, PeriodWeekly, 0},
	}
	for _, tc := range cases {
		if got := ConvertBudget(tc.amount, tc.from, tc.to); got != tc.want {
			t.Errorf("ConvertBudget(%d, %s, %s) = %d, want %d", tc.amount, tc.from, tc.to, got, tc.want)
		}
	}
}

func TestRoundPercent(t *testing.T) {
	if RoundPercent(10, 0) != nil {
		t.Fatal("zero denominator must yield nil")
	}
	cases := []struct{ part, whole, want int64 }{
		{5000, 10000, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 200, 1}, // 0.5
		{0, 100, 0},
		{250, 100, 250},
	}
	for _, tc := range cases {
		got := RoundPercent(tc.part, tc.whole)
		if got == nil || *got != tc.want {
			t.Errorf("RoundPercent(%d, %d) = %v, want %d", tc.part, tc.whole, got, tc.want)
		}
	}
}

func TestProject(t *testing.T) {
	cases := []struct {
		spent          int64
		elapsed, total int
		want           int64
	}{
		{5000, 3, 7, 11667},
		{100, 3, 3, 100},
		{0, 4, 30, 0},
		{700, 0, 7, 4900}, // elapsed floored at 1
	}
	for _, tc := range cases {
		if got := Project(tc.spent, tc.elapsed, tc.total); got != tc.want {
			t.Errorf("Project(%d, %d, %d) = %d, want %d", tc.spent, tc.elapsed, tc.total, got, tc.want)
		}
	}
}

func TestTotalRunRateRoundsPerItem(t *testing.T) {
	items := []RecurringItem{
		{AmountCents: 50, Frequency: Weekly}, // 216.5 -> 217
		{AmountCents: 50, Frequency: Weekly}, // 217
		{AmountCents: 300000, Frequency: Monthly},
		{AmountCents: 999, Frequency: "hourly"}, // ignored
	}
	if got := TotalRunRate(items); got != 300434 {
		t.Fatalf("TotalRunRate = %d, want 300434", got)
	}
	if TotalRunRate(nil) != 0 {
		t.Fatal("empty input should sum to zero")
	}
}
