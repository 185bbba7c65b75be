package stats

import (
	"context"
	"sort"
	"sync"

	"budgetpace/internal/core"
)

// memStore evaluates the Store queries over an in-memory slice.
type memStore struct {
	mu       sync.Mutex
	txs      []core.Transaction
	settings map[string]core.BudgetSettings
	customs  []core.CustomCategory
	failOn   string
	err      error
}

func newMemStore() *memStore {
	return &memStore{settings: map[string]core.BudgetSettings{}}
}

func (m *memStore) add(txs ...core.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range txs {
		if tx.Type == "" {
			tx.Type = core.Expense
		}
		m.txs = append(m.txs, tx)
	}
}

func (m *memStore) fail(method string) error {
	if m.failOn == method {
		return m.err
	}
	return nil
}

func (m *memStore) SumByType(_ context.Context, owner string, t core.TxType, w core.Window) (int64, error) {
	if err := m.fail("SumByType"); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, tx := range m.txs {
		if tx.Owner == owner && tx.Type == t && w.Contains(tx.OccurredAt) {
			total += tx.Amount.Cents
		}
	}
	return total, nil
}

func (m *memStore) DailyTotals(_ context.Context, owner string, w core.Window) ([]core.DayTotals, error) {
	if err := m.fail("DailyTotals"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	byDay := map[string]*core.DayTotals{}
	for _, tx := range m.txs {
		if tx.Owner != owner || !w.Contains(tx.OccurredAt) {
			continue
		}
		key := tx.OccurredAt.UTC().Format("2006-01-02")
		d, ok := byDay[key]
		if !ok {
			d = &core.DayTotals{Day: key}
			byDay[key] = d
		}
		if tx.Type == core.Expense {
			d.ExpenseCents += tx.Amount.Cents
		} else {
			d.IncomeCents += tx.Amount.Cents
		}
	}
	var out []core.DayTotals
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

func (m *memStore) CategoryTotals(_ context.Context, owner string, t core.TxType, w *core.Window) ([]core.CategoryBucket, error) {
	if err := m.fail("CategoryTotals"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sums := map[string]int64{}
	for _, tx := range m.txs {
		if tx.Owner != owner || tx.Type != t || (w != nil && !w.Contains(tx.OccurredAt)) {
			continue
		}
		sums[tx.Category] += tx.Amount.Cents
	}
	var out []core.CategoryBucket
	for c, v := range sums {
		out = append(out, core.CategoryBucket{Category: c, TotalCents: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalCents != out[j].TotalCents {
			return out[i].TotalCents > out[j].TotalCents
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (m *memStore) RecurringItems(_ context.Context, owner string, t core.TxType) ([]core.RecurringItem, error) {
	if err := m.fail("RecurringItems"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.RecurringItem
	for _, tx := range m.txs {
		if tx.Owner == owner && tx.Type == t && tx.IsRecurring && tx.Frequency != "" {
			out = append(out, core.RecurringItem{AmountCents: tx.Amount.Cents, Frequency: tx.Frequency})
		}
	}
	return out, nil
}

func (m *memStore) Settings(_ context.Context, owner string) (core.BudgetSettings, error) {
	if err := m.fail("Settings"); err != nil {
		return core.BudgetSettings{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.settings[owner]; ok {
		return s, nil
	}
	return core.DefaultSettings(owner), nil
}

func (m *memStore) ListCustomCategories(_ context.Context, owner string, t core.TxType) ([]core.CustomCategory, error) {
	if err := m.fail("ListCustomCategories"); err != nil {
		return nil, err
	}
	var out []core.CustomCategory
	for _, c := range m.customs {
		if c.Owner == owner && (t == "" || c.Type == t) {
			out = append(out, c)
		}
	}
	return out, nil
}
