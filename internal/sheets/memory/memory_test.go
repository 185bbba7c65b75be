package memory

import (
	"context"
	"testing"
	"time"

	"budgetpace/internal/core"
)

func TestMirrorUpsertAndRemove(t *testing.T) {
	m := New()
	ctx := context.Background()
	tx := core.Transaction{
		ID: "a", Owner: "user:1", Amount: core.Money{Cents: 1999}, Category: "Food",
		OccurredAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), Type: core.Expense,
	}

	m.Upsert(ctx, tx)
	m.Upsert(ctx, core.Transaction{ID: "b", Type: core.Income, Amount: core.Money{Cents: 1}})
	tx.Amount = core.Money{Cents: 2500}
	m.Upsert(ctx, tx)

	rows := m.Rows()
	if len(rows) != 2 || rows[0][0] != "a" || rows[0][7] != "25.00" {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0][2] != "2025-06-01" || rows[0][8] != "false" {
		t.Fatalf("row = %v", rows[0])
	}

	if err := m.Remove(ctx, "missing"); err != nil {
		t.Fatal(err)
	}
	m.Remove(ctx, "a")
	if _, ok := m.Row("a"); ok {
		t.Fatal("row a should be gone")
	}
	if rows := m.Rows(); len(rows) != 1 || rows[0][0] != "b" {
		t.Fatalf("rows = %v", rows)
	}
}
