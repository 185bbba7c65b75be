package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ReserveUsage adds delta to the counter only if the result stays within
// limit. The check and the write are one statement, so concurrent callers
// can never push the count past the cap. allowed is false when the slot is
// not available; used is then the current count.
func (r *SQLiteRepository) ReserveUsage(ctx context.Context, owner, kind, monthKey string, delta, limit int64) (used int64, allowed bool, err error) {
	now := r.timestamp()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO usage_counters (owner, kind, month_key, used_count, updated_at)
		 VALUES (?, ?, ?, 0, ?)
		 ON CONFLICT (owner, kind, month_key) DO NOTHING`,
		owner, kind, monthKey, now); err != nil {
		return 0, false, fmt.Errorf("ensure usage counter: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`UPDATE usage_counters
		 SET used_count = used_count + ?, updated_at = ?
		 WHERE owner = ? AND kind = ? AND month_key = ? AND used_count + ? <= ?
		 RETURNING used_count`,
		delta, now, owner, kind, monthKey, delta, limit).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		used, err = r.UsageCount(ctx, owner, kind, monthKey)
		return used, false, err
	}
	if err != nil {
		return 0, false, fmt.Errorf("reserve usage: %w", err)
	}
	return used, true, nil
}

// ReleaseUsage gives back delta slots, never going below zero.
func (r *SQLiteRepository) ReleaseUsage(ctx context.Context, owner, kind, monthKey string, delta int64) (int64, error) {
	var used int64
	err := r.db.QueryRowContext(ctx,
		`UPDATE usage_counters
		 SET used_count = MAX(0, used_count - ?), updated_at = ?
		 WHERE owner = ? AND kind = ? AND month_key = ?
		 RETURNING used_count`,
		delta, r.timestamp(), owner, kind, monthKey).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("release usage: %w", err)
	}
	return used, nil
}

func (r *SQLiteRepository) UsageCount(ctx context.Context, owner, kind, monthKey string) (int64, error) {
	var used int64
	err := r.db.QueryRowContext(ctx,
		`SELECT used_count FROM usage_counters WHERE owner = ? AND kind = ? AND month_key = ?`,
		owner, kind, monthKey).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get usage: %w", err)
	}
	return used, nil
}
