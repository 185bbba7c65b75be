package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"budgetpace/internal/core"

	"github.com/google/uuid"
)

// ListCustomCategories returns the owner's categories of type t, or of every
// type when t is empty, ordered by name.
func (r *SQLiteRepository) ListCustomCategories(ctx context.Context, owner string, t core.TxType) ([]core.CustomCategory, error) {
	query := `SELECT id, owner, category_name, icon, color, type, created_at FROM custom_categories WHERE owner = ?`
	args := []any{owner}
	if t != "" {
		query += ` AND type = ?`
		args = append(args, string(t))
	}
	query += ` ORDER BY category_name COLLATE NOCASE, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list custom categories: %w", err)
	}
	defer rows.Close()

	var out []core.CustomCategory
	for rows.Next() {
		c, err := scanCustomCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan custom category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetCustomCategory(ctx context.Context, owner, id string) (core.CustomCategory, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner, category_name, icon, color, type, created_at FROM custom_categories WHERE id = ? AND owner = ?`,
		id, owner)
	c, err := scanCustomCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.CustomCategory{}, ErrNotFound
	}
	if err != nil {
		return core.CustomCategory{}, fmt.Errorf("get custom category: %w", err)
	}
	return c, nil
}

// CreateCustomCategory fails with ErrConflict when the owner already has a
// category of that type whose name matches case-insensitively.
func (r *SQLiteRepository) CreateCustomCategory(ctx context.Context, c core.CustomCategory) (core.CustomCategory, error) {
	c.ID = uuid.NewString()
	created := r.timestamp()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO custom_categories (id, owner, category_name, icon, color, type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Owner, c.Name, c.Icon, c.Color, string(c.Type), created)
	if isUniqueViolation(err) {
		return core.CustomCategory{}, ErrConflict
	}
	if err != nil {
		return core.CustomCategory{}, fmt.Errorf("insert custom category: %w", err)
	}
	c.CreatedAt, _ = parseTime(created)
	return c, nil
}

func (r *SQLiteRepository) UpdateCustomCategory(ctx context.Context, c core.CustomCategory) (core.CustomCategory, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE custom_categories SET category_name = ?, icon = ?, color = ?, type = ?
		 WHERE id = ? AND owner = ?`,
		c.Name, c.Icon, c.Color, string(c.Type), c.ID, c.Owner)
	if isUniqueViolation(err) {
		return core.CustomCategory{}, ErrConflict
	}
	if err != nil {
		return core.CustomCategory{}, fmt.Errorf("update custom category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.CustomCategory{}, ErrNotFound
	}
	return r.GetCustomCategory(ctx, c.Owner, c.ID)
}

// DeleteCustomCategory removes the definition only; transactions keep their
// category text.
func (r *SQLiteRepository) DeleteCustomCategory(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM custom_categories WHERE id = ? AND owner = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("delete custom category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCustomCategory(s rowScanner) (core.CustomCategory, error) {
	var (
		c       core.CustomCategory
		t       string
		created string
	)
	if err := s.Scan(&c.ID, &c.Owner, &c.Name, &c.Icon, &c.Color, &t, &created); err != nil {
		return core.CustomCategory{}, err
	}
	c.Type = core.TxType(t)
	var err error
	if c.CreatedAt, err = parseTime(created); err != nil {
		return core.CustomCategory{}, err
	}
	return c, nil
}
