// Package sheets defines the outbound mirror port that copies ledger rows
// into a spreadsheet, with a Google Sheets adapter and an in-memory one.
package sheets

import (
	"context"
	"strconv"
	"time"

	"budgetpace/internal/core"
)

// TransactionMirror keeps one row per transaction, keyed by ID.
type TransactionMirror interface {
	// Upsert writes the row, replacing an existing one with the same ID.
	Upsert(ctx context.Context, t core.Transaction) error
	// Remove deletes the row; removing an unknown ID is not an error.
	Remove(ctx context.Context, id string) error
}

// Header is the first row of the mirror sheet.
var Header = []string{"ID", "Owner", "Date", "Type", "Category", "Vendor", "Note", "Amount", "Recurring", "Frequency"}

// Row renders t in Header order.
func Row(t core.Transaction) []string {
	return []string{
		t.ID,
		t.Owner,
		t.OccurredAt.UTC().Format(time.DateOnly),
		string(t.Type),
		t.Category,
		t.Vendor,
		t.Note,
		t.Amount.String(),
		strconv.FormatBool(t.IsRecurring),
		string(t.Frequency),
	}
}
