package stats

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"budgetpace/internal/core"
	"budgetpace/internal/storage"
)

func TestCategoriesMergesCaseVariantsFromSQLite(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()

	ctx := context.Background()
	for _, label := range []string{"food", "FOOD", "Food"} {
		_, err := repo.CreateTransaction(ctx, core.Transaction{
			Owner:      "o",
			Amount:     core.Money{Cents: 1000},
			Category:   label,
			OccurredAt: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
			Type:       core.Expense,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := NewComposer(repo).Categories(ctx, "o", core.Expense)
	if err != nil {
		t.Fatal(err)
	}
	want := []core.CategoryBucket{{Category: "Food", TotalCents: 3000}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
