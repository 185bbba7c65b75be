package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"budgetpace/internal/core"

	"github.com/google/uuid"
)

const transactionColumns = `id, owner, amount_cents, category, vendor, note, occurred_at, created_at, type, is_recurring, recurrence_frequency`

// CreateTransaction inserts the row and refreshes the owner's vendor memory
// in a single SQL transaction. ID and CreatedAt are assigned here.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = uuid.NewString()
	t.CreatedAt = r.now().UTC().Truncate(time.Millisecond)
	t.OccurredAt = t.OccurredAt.UTC().Truncate(time.Millisecond)

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Owner, t.Amount.Cents, t.Category, t.Vendor, t.Note,
			formatTime(t.OccurredAt), formatTime(t.CreatedAt), string(t.Type),
			t.IsRecurring, nullFrequency(t.Frequency))
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		return r.rememberVendor(ctx, tx, t.Owner, t.Vendor, t.Category)
	})
	if err != nil {
		return core.Transaction{}, err
	}

	slog.DebugContext(ctx, "Transaction stored",
		"id", t.ID,
		"owner", t.Owner,
		"type", t.Type,
		"amount_cents", t.Amount.Cents)

	return t, nil
}

// UpdateTransaction overwrites an existing row owned by t.Owner and refreshes
// vendor memory in the same SQL transaction.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE transactions
			 SET amount_cents = ?, category = ?, vendor = ?, note = ?, occurred_at = ?,
			     type = ?, is_recurring = ?, recurrence_frequency = ?
			 WHERE id = ? AND owner = ?`,
			t.Amount.Cents, t.Category, t.Vendor, t.Note, formatTime(t.OccurredAt),
			string(t.Type), t.IsRecurring, nullFrequency(t.Frequency),
			t.ID, t.Owner)
		if err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("update transaction: %w", err)
		} else if n == 0 {
			return ErrNotFound
		}
		return r.rememberVendor(ctx, tx, t.Owner, t.Vendor, t.Category)
	})
	if err != nil {
		return core.Transaction{}, err
	}
	return r.GetTransaction(ctx, t.Owner, t.ID)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND owner = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, owner, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND owner = ?`, id, owner)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns the most recent rows first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, owner string, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE owner = ?
		 ORDER BY occurred_at DESC, id DESC
		 LIMIT ?`, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0, limit)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// EachTransaction streams every row of the owner, newest first.
func (r *SQLiteRepository) EachTransaction(ctx context.Context, owner string, fn func(core.Transaction) error) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE owner = ?
		 ORDER BY occurred_at DESC, id DESC`, owner)
	if err != nil {
		return fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return fmt.Errorf("scan transaction: %w", err)
		}
		if err := fn(t); err != nil {
			return err
		}
	}
	return rows.Err()
}

func scanTransaction(s rowScanner) (core.Transaction, error) {
	var (
		t                 core.Transaction
		occurred, created string
		txType            string
		frequency         sql.NullString
	)
	if err := s.Scan(&t.ID, &t.Owner, &t.Amount.Cents, &t.Category, &t.Vendor, &t.Note,
		&occurred, &created, &txType, &t.IsRecurring, &frequency); err != nil {
		return core.Transaction{}, err
	}
	var err error
	if t.OccurredAt, err = parseTime(occurred); err != nil {
		return core.Transaction{}, err
	}
	if t.CreatedAt, err = parseTime(created); err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.TxType(txType)
	t.Frequency = core.Frequency(frequency.String)
	return t, nil
}

func nullFrequency(f core.Frequency) sql.NullString {
	return sql.NullString{String: string(f), Valid: f != ""}
}
