package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2025-03-09 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2025-03-09" || d.Location() != time.UTC {
		t.Fatalf("got %v", d)
	}
	for _, bad := range []string{"", "2025-13-01", "09/03/2025", "2025-02-30"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) err = %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestParseTxType(t *testing.T) {
	cases := map[string]TxType{"": Expense, "expense": Expense, "INCOME": Income, " income ": Income}
	for in, want := range cases {
		got, err := ParseTxType(in)
		if err != nil || got != want {
			t.Errorf("ParseTxType(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseTxType("refund"); !errors.Is(err, ErrInvalidType) {
		t.Errorf("expected ErrInvalidType, got %v", err)
	}
}

func validTx() Transaction {
	return Transaction{
		Owner:      "user:1",
		Amount:     Money{Cents: 1250},
		Category:   "Food & Dining",
		OccurredAt: time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC),
		Type:       Expense,
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validTx().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	recurring := validTx()
	recurring.IsRecurring = true
	recurring.Frequency = Biweekly
	if err := recurring.Validate(); err != nil {
		t.Fatalf("recurring: expected ok, got %v", err)
	}

	cases := []struct {
		name  string
		edit  func(*Transaction)
		field string
		err   error
	}{
		{"zero amount", func(tx *Transaction) { tx.Amount.Cents = 0 }, "amount_cents", ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount.Cents = -5 }, "amount_cents", ErrInvalidAmount},
		{"blank category", func(tx *Transaction) { tx.Category = "   " }, "category", ErrEmptyCategory},
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, "type", ErrInvalidType},
		{"no date", func(tx *Transaction) { tx.OccurredAt = time.Time{} }, "occurred_at", ErrInvalidDate},
		{"recurring without frequency", func(tx *Transaction) { tx.IsRecurring = true }, "recurrence_frequency", ErrFrequencyRequired},
		{"unknown frequency", func(tx *Transaction) { tx.IsRecurring = true; tx.Frequency = "daily" }, "recurrence_frequency", ErrInvalidFrequency},
		{"frequency without recurring", func(tx *Transaction) { tx.Frequency = Monthly }, "recurrence_frequency", ErrInvalidFrequency},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validTx()
			tc.edit(&tx)
			err := tx.Validate()
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Errorf("field = %q, want %q", ve.Field, tc.field)
			}
			if !errors.Is(err, tc.err) {
				t.Errorf("err = %v, want %v", err, tc.err)
			}
		})
	}
}

func TestCustomCategoryDefaults(t *testing.T) {
	c := CustomCategory{Name: "  Pets "}.WithDefaults()
	if c.Name != "Pets" || c.Icon != DefaultCustomIcon || c.Color != DefaultCustomColor || c.Type != Expense {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	c.Color = "red"
	if err := c.Validate(); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
}

func TestBudgetSettingsValidate(t *testing.T) {
	s := DefaultSettings("device:abc")
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if s.ActiveBudget().Cents != 0 {
		t.Fatalf("fresh settings should have no budget")
	}

	bad := []func(*BudgetSettings){
		func(s *BudgetSettings) { s.WeeklyBudget.Cents = -1 },
		func(s *BudgetSettings) { s.MonthlyBudget.Cents = -1 },
		func(s *BudgetSettings) { s.Period = "daily" },
		func(s *BudgetSettings) { s.WeekStart = 0 },
		func(s *BudgetSettings) { s.WeekStart = 8 },
		func(s *BudgetSettings) { s.CurrencyCode = "usd" },
	}
	for i, edit := range bad {
		s := DefaultSettings("x")
		edit(&s)
		if err := s.Validate(); err == nil {
			t.Errorf("case %d expected error", i)
		}
	}

	s.Period = PeriodMonthly
	s.WeeklyBudget.Cents = 100
	s.MonthlyBudget.Cents = 400
	if got := s.ActiveBudget().Cents; got != 400 {
		t.Fatalf("ActiveBudget = %d, want 400", got)
	}
}
