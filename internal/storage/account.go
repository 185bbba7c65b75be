package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// ownerTables lists every table keyed by owner, children first.
var ownerTables = []string{
	"transactions",
	"vendor_category_map",
	"custom_categories",
	"usage_counters",
	"budget_settings",
}

// DeleteOwnerData removes everything stored for owner in one transaction and
// returns the ids of the deleted transactions.
func (r *SQLiteRepository) DeleteOwnerData(ctx context.Context, owner string) ([]string, error) {
	var ids []string
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT id FROM transactions WHERE owner = ? ORDER BY created_at`, owner)
		if err != nil {
			return fmt.Errorf("list owner transactions: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return fmt.Errorf("scan transaction id: %w", err)
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("list owner transactions: %w", err)
		}

		for _, table := range ownerTables {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE owner = ?`, owner); err != nil {
				return fmt.Errorf("delete %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
