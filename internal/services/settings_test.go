package services

import (
	"context"
	"testing"

	"budgetpace/internal/core"
)

func TestSettingsUpdate(t *testing.T) {
	inv := &recordingInvalidator{}
	svc := NewSettingsService(newRepo(t), inv)
	ctx := context.Background()

	st, err := svc.Get(ctx, "user:a")
	if err != nil || st.Period != core.PeriodWeekly || st.CurrencyCode != "USD" || st.WeekStart != 1 {
		t.Fatalf("defaults = %+v, %v", st, err)
	}

	if same, err := svc.Update(ctx, "user:a", SettingsPatch{}); err != nil || same.Period != st.Period {
		t.Fatalf("empty patch = %+v, %v", same, err)
	}
	if len(inv.owners) != 0 {
		t.Fatal("empty patch must not invalidate")
	}

	tests := []struct {
		name  string
		patch SettingsPatch
		field string
	}{
		{"negative weekly", SettingsPatch{WeeklyBudgetCents: ptr(int64(-1))}, "weekly_budget_cents"},
		{"negative monthly", SettingsPatch{MonthlyBudgetCents: ptr(int64(-1))}, "monthly_budget_cents"},
		{"bad period", SettingsPatch{BudgetPeriod: ptr("daily")}, "budget_period"},
		{"bad week start", SettingsPatch{WeekStart: ptr(8)}, "week_start"},
		{"bad currency", SettingsPatch{CurrencyCode: ptr("dollars")}, "currency_code"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Update(ctx, "user:a", tt.patch); fieldOf(err) != tt.field {
				t.Fatalf("err = %v, want field %q", err, tt.field)
			}
		})
	}

	got, err := svc.Update(ctx, "user:a", SettingsPatch{
		MonthlyBudgetCents: ptr(int64(200000)),
		BudgetPeriod:       ptr("Monthly"),
		CurrencyCode:       ptr("eur"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Period != core.PeriodMonthly || got.MonthlyBudget.Cents != 200000 || got.CurrencyCode != "EUR" || got.WeekStart != 1 {
		t.Fatalf("updated = %+v", got)
	}
	if len(inv.owners) != 1 {
		t.Fatalf("invalidations = %v", inv.owners)
	}
}
