package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"budgetpace/internal/core"
	"budgetpace/internal/storage"
)

type memVendors struct {
	rows []core.VendorCategory
	err  error
}

func (m memVendors) VendorCategory(_ context.Context, _, key string) (core.VendorCategory, error) {
	if m.err != nil {
		return core.VendorCategory{}, m.err
	}
	for _, r := range m.rows {
		if r.VendorKey == key {
			return r, nil
		}
	}
	return core.VendorCategory{}, storage.ErrNotFound
}

func (m memVendors) ListVendorCategories(_ context.Context, _ string, limit int) ([]core.VendorCategory, error) {
	if len(m.rows) > limit {
		return m.rows[:limit], nil
	}
	return m.rows, nil
}

func TestVendorSuggest(t *testing.T) {
	now := time.Now()
	store := memVendors{rows: []core.VendorCategory{
		{VendorKey: "starbucks", Category: "Food & Dining", UpdatedAt: now},
		{VendorKey: "shell", Category: "Transportation", UpdatedAt: now.Add(-time.Hour)},
		{VendorKey: "starbuck", Category: "Other", UpdatedAt: now.Add(-2 * time.Hour)},
		{VendorKey: "trader joe's", Category: "Shopping", UpdatedAt: now.Add(-3 * time.Hour)},
	}}
	s := NewVendorSuggester(store)

	tests := []struct {
		name     string
		vendor   string
		ok       bool
		category string
		match    MatchKind
	}{
		{"exact after normalizing", "  STARBUCKS ", true, "Food & Dining", MatchExact},
		{"curly apostrophe", "Trader Joe’s", true, "Shopping", MatchExact},
		{"typo", "starbcks", true, "Food & Dining", MatchFuzzy},
		{"too far", "walmart", false, "", ""},
		{"short key needs small distance", "shel", true, "Transportation", MatchFuzzy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := s.Suggest(context.Background(), "user:a", tt.vendor)
			if err != nil {
				t.Fatal(err)
			}
			if ok != tt.ok || got.Category != tt.category || got.Match != tt.match {
				t.Fatalf("Suggest(%q) = %+v, %v", tt.vendor, got, ok)
			}
		})
	}

	if _, _, err := s.Suggest(context.Background(), "user:a", "   "); fieldOf(err) != "vendor" {
		t.Fatalf("blank vendor err = %v", err)
	}

	broken := NewVendorSuggester(memVendors{err: errors.New("db gone")})
	if _, _, err := broken.Suggest(context.Background(), "user:a", "x"); err == nil {
		t.Fatal("store errors must surface")
	}
}

func TestVendorMemoryThroughTransactions(t *testing.T) {
	repo := newRepo(t)
	txs := NewTransactionService(repo, nil, nil)
	ctx := context.Background()

	txs.Create(ctx, "user:a", NewTransaction{AmountCents: 500, Category: "Food & Dining", Vendor: "Blue Bottle Coffee"})
	txs.Create(ctx, "user:b", NewTransaction{AmountCents: 500, Category: "Shopping", Vendor: "Blue Bottle Coffee"})

	s := NewVendorSuggester(repo)
	got, ok, err := s.Suggest(ctx, "user:a", "blue botle coffee")
	if err != nil || !ok || got.Category != "Food & Dining" {
		t.Fatalf("Suggest = %+v, %v, %v", got, ok, err)
	}

	known, err := s.Known(ctx, "user:b")
	if err != nil || len(known) != 1 || known[0].Category != "Shopping" {
		t.Fatalf("Known = %+v, %v", known, err)
	}
}
