// Package memory is an in-process TransactionMirror for tests and for
// running the ledger worker without spreadsheet credentials.
package memory

import (
	"context"
	"sync"

	"budgetpace/internal/core"
	"budgetpace/internal/sheets"
)

var _ sheets.TransactionMirror = (*Mirror)(nil)

type Mirror struct {
	mu    sync.Mutex
	order []string
	rows  map[string][]string
}

func New() *Mirror {
	return &Mirror{rows: make(map[string][]string)}
}

func (m *Mirror) Upsert(_ context.Context, t core.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[t.ID]; !ok {
		m.order = append(m.order, t.ID)
	}
	m.rows[t.ID] = sheets.Row(t)
	return nil
}

func (m *Mirror) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return nil
	}
	delete(m.rows, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Rows returns a copy of the sheet body in insertion order.
func (m *Mirror) Rows() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, append([]string(nil), m.rows[id]...))
	}
	return out
}

func (m *Mirror) Row(id string) ([]string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	return append([]string(nil), r...), ok
}
