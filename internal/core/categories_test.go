package core

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	custom := []CustomCategory{
		{Name: "Coffee Runs", Type: Expense},
		{Name: "Tutoring", Type: Income},
		{Name: "Travel", Type: Expense, Icon: "🧳"},
	}
	cases := []struct {
		raw  string
		typ  TxType
		want string
	}{
		{"", Expense, "Other"},
		{"   ", Income, "Other Income"},
		{"coffee runs", Expense, "Coffee Runs"},
		{"tutoring", Expense, "tutoring"}, // custom of the other type does not match
		{"TUTORING", Income, "Tutoring"},
		{"food & dining", Expense, "Food & Dining"},
		{" salary/wages ", Income, "Salary/Wages"},
		{"Food & Dining", Income, "Food & Dining"}, // not an income built-in, kept as-is
		{"Groceries", Expense, "Groceries"},
		{"travel", Expense, "Travel"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.raw, custom, tc.typ); got != tc.want {
			t.Errorf("Normalize(%q, %s) = %q, want %q", tc.raw, tc.typ, got, tc.want)
		}
	}
}

func TestMergeBucketsCollapsesCaseVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want string
	}{
		{"title first", []string{"Food", "food", "FOOD"}, "Food"},
		{"upper first", []string{"FOOD", "Food", "food"}, "Food"},
		{"lower first", []string{"food", "FOOD", "Food"}, "Food"},
		{"no title variant", []string{"GROCERIES", "groceries"}, "GROCERIES"},
		{"multi word", []string{"PET SUPPLIES", "pet supplies", "Pet Supplies"}, "Pet Supplies"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw []CategoryBucket
			for _, label := range tt.raw {
				raw = append(raw, CategoryBucket{Category: label, TotalCents: 700})
			}
			got := MergeBuckets(raw, nil, Expense)
			want := []CategoryBucket{{Category: tt.want, TotalCents: int64(700 * len(tt.raw))}}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("got %+v, want %+v", got, want)
			}
		})
	}
}

func TestMergeBucketsOrdering(t *testing.T) {
	custom := []CustomCategory{{Name: "Pets", Type: Expense}}
	raw := []CategoryBucket{
		{Category: "shopping", TotalCents: 300},
		{Category: "pets", TotalCents: 200},
		{Category: "Transportation", TotalCents: 500},
		{Category: "PETS", TotalCents: 200},
		{Category: "Shopping", TotalCents: 100},
		{Category: "", TotalCents: 50},
		{Category: "Other", TotalCents: 50},
		{Category: "Books", TotalCents: 400},
	}
	got := MergeBuckets(raw, custom, Expense)
	// Equal totals fall back to name order.
	want := []CategoryBucket{
		{Category: "Transportation", TotalCents: 500},
		{Category: "Books", TotalCents: 400},
		{Category: "Pets", TotalCents: 400},
		{Category: "Shopping", TotalCents: 400},
		{Category: "Other", TotalCents: 100},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
	if len(MergeBuckets(nil, custom, Expense)) != 0 {
		t.Fatalf("empty input should merge to empty output")
	}
}

func TestStyleFor(t *testing.T) {
	custom := []CustomCategory{
		{Name: "Travel", Type: Expense, Icon: "🧳", Color: "#123456"},
		{Name: "Pets", Type: Expense},
	}
	if s := StyleFor("Travel", custom, Expense); s.Icon != "🧳" || s.Accent != "#123456" {
		t.Errorf("custom override not applied: %+v", s)
	}
	if s := StyleFor("Travel", nil, Expense); s.Icon != "✈️" {
		t.Errorf("built-in style expected, got %+v", s)
	}
	if s := StyleFor("Pets", custom, Expense); s.Icon != DefaultCustomIcon || s.Accent != DefaultCustomColor || s.Gradient[1] != "#E5E7EB" {
		t.Errorf("custom defaults expected, got %+v", s)
	}
	if s := StyleFor("Unknown", nil, Expense); s.Accent != "#F6F6F6" {
		t.Errorf("expense fallback expected, got %+v", s)
	}
	if s := StyleFor("Unknown", nil, Income); s.Accent != "#6B7280" {
		t.Errorf("income fallback expected, got %+v", s)
	}
	if s := StyleFor("Salary/Wages", nil, Income); s.Icon != "💰" {
		t.Errorf("income style expected, got %+v", s)
	}
}

func TestCatalog(t *testing.T) {
	custom := []CustomCategory{
		{ID: "c1", Name: "Pets", Type: Expense},
		{ID: "c2", Name: "Tips", Type: Income},
	}
	entries := Catalog(custom, Income)
	if len(entries) != len(Categories(Income))+1 {
		t.Fatalf("unexpected entry count %d", len(entries))
	}
	last := entries[len(entries)-1]
	if !last.Custom || last.ID != "c2" || last.Name != "Tips" {
		t.Fatalf("custom entry not appended: %+v", last)
	}
	if entries[0].Custom || entries[0].Name != "Salary/Wages" {
		t.Fatalf("built-ins should come first: %+v", entries[0])
	}
}

func TestCategoriesReturnsCopy(t *testing.T) {
	c := Categories(Expense)
	c[0] = "mutated"
	if Categories(Expense)[0] != "Food & Dining" {
		t.Fatal("Categories must not expose the internal slice")
	}
}
