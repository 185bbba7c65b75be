package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"budgetpace/internal/core"
)

// rememberVendor upserts the vendor→category mapping inside tx. Rows without
// a usable vendor are skipped.
func (r *SQLiteRepository) rememberVendor(ctx context.Context, tx *sql.Tx, owner, vendor, category string) error {
	key := core.NormalizeVendor(vendor)
	if key == "" {
		return nil
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO vendor_category_map (owner, vendor_key, category, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (owner, vendor_key) DO UPDATE SET category = excluded.category, updated_at = excluded.updated_at`,
		owner, key, category, r.timestamp())
	if err != nil {
		return fmt.Errorf("upsert vendor category: %w", err)
	}
	return nil
}

// VendorCategory looks up the remembered category for an exact vendor key.
func (r *SQLiteRepository) VendorCategory(ctx context.Context, owner, vendorKey string) (core.VendorCategory, error) {
	var (
		vc      core.VendorCategory
		updated string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT vendor_key, category, updated_at FROM vendor_category_map WHERE owner = ? AND vendor_key = ?`,
		owner, vendorKey).Scan(&vc.VendorKey, &vc.Category, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return core.VendorCategory{}, ErrNotFound
	}
	if err != nil {
		return core.VendorCategory{}, fmt.Errorf("get vendor category: %w", err)
	}
	if vc.UpdatedAt, err = parseTime(updated); err != nil {
		return core.VendorCategory{}, err
	}
	return vc, nil
}

// ListVendorCategories returns the most recently used mappings first.
func (r *SQLiteRepository) ListVendorCategories(ctx context.Context, owner string, limit int) ([]core.VendorCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT vendor_key, category, updated_at FROM vendor_category_map
		 WHERE owner = ?
		 ORDER BY updated_at DESC, vendor_key ASC
		 LIMIT ?`, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("list vendor categories: %w", err)
	}
	defer rows.Close()

	var out []core.VendorCategory
	for rows.Next() {
		var (
			vc      core.VendorCategory
			updated string
		)
		if err := rows.Scan(&vc.VendorKey, &vc.Category, &updated); err != nil {
			return nil, fmt.Errorf("scan vendor category: %w", err)
		}
		if vc.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		out = append(out, vc)
	}
	return out, rows.Err()
}
