package services

import (
	"context"
	"fmt"
	"strings"

	"budgetpace/internal/core"
)

type SettingsStore interface {
	Settings(ctx context.Context, owner string) (core.BudgetSettings, error)
	SaveSettings(ctx context.Context, s core.BudgetSettings) (core.BudgetSettings, error)
}

// SettingsPatch holds only the fields present in the request.
type SettingsPatch struct {
	CurrencyCode       *string
	WeeklyBudgetCents  *int64
	MonthlyBudgetCents *int64
	BudgetPeriod       *string
	WeekStart          *int
}

func (p SettingsPatch) empty() bool {
	return p.CurrencyCode == nil && p.WeeklyBudgetCents == nil && p.MonthlyBudgetCents == nil &&
		p.BudgetPeriod == nil && p.WeekStart == nil
}

type SettingsService struct {
	store SettingsStore
	cache Invalidator
}

func NewSettingsService(store SettingsStore, cache Invalidator) *SettingsService {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &SettingsService{store: store, cache: cache}
}

// Get returns the settings, creating defaults on first access.
func (s *SettingsService) Get(ctx context.Context, owner string) (core.BudgetSettings, error) {
	st, err := s.store.Settings(ctx, owner)
	if err != nil {
		return core.BudgetSettings{}, fmt.Errorf("load settings: %w", err)
	}
	return st, nil
}

// Update merges p into the stored settings. An empty patch returns the
// current settings unchanged.
func (s *SettingsService) Update(ctx context.Context, owner string, p SettingsPatch) (core.BudgetSettings, error) {
	st, err := s.Get(ctx, owner)
	if err != nil || p.empty() {
		return st, err
	}

	if p.CurrencyCode != nil {
		st.CurrencyCode = strings.ToUpper(strings.TrimSpace(*p.CurrencyCode))
	}
	if p.WeeklyBudgetCents != nil {
		st.WeeklyBudget = core.Money{Cents: *p.WeeklyBudgetCents}
	}
	if p.MonthlyBudgetCents != nil {
		st.MonthlyBudget = core.Money{Cents: *p.MonthlyBudgetCents}
	}
	if p.BudgetPeriod != nil {
		st.Period = core.BudgetPeriod(strings.ToLower(strings.TrimSpace(*p.BudgetPeriod)))
	}
	if p.WeekStart != nil {
		st.WeekStart = *p.WeekStart
	}
	if err := st.Validate(); err != nil {
		return core.BudgetSettings{}, err
	}

	saved, err := s.store.SaveSettings(ctx, st)
	if err != nil {
		return core.BudgetSettings{}, fmt.Errorf("save settings: %w", err)
	}
	s.cache.InvalidateOwner(owner)
	return saved, nil
}
