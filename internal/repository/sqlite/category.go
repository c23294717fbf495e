package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/songbook/internal/model"
	"github.com/sakif/songbook/internal/repository"
)

var _ repository.CategoryRepository = (*DB)(nil)

const categoryColumns = `id, title, user_id, created_at, updated_at`

// CreateCategory inserts a category, filling in ID and timestamps on the
// caller's struct.
func (db *DB) CreateCategory(ctx context.Context, c *model.Category) error {
	c.ID = xid.New().String()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := db.conn.NamedExecContext(ctx,
		`INSERT INTO categories (`+categoryColumns+`)
		 VALUES (:id, :title, :user_id, :created_at, :updated_at)`,
		c,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting category %q: %w", c.Title, err)
	}
	return nil
}

// GetCategoryByID returns the category only if it belongs to userID.
func (db *DB) GetCategoryByID(ctx context.Context, userID, id string) (*model.Category, error) {
	var c model.Category
	err := db.conn.GetContext(ctx, &c,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return nil, notFoundIfNoRows(err, "category", id, "getting category "+id)
	}
	return &c, nil
}

// ListCategories returns the user's categories, oldest first.
func (db *DB) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	categories := []model.Category{}
	err := db.conn.SelectContext(ctx, &categories,
		`SELECT `+categoryColumns+` FROM categories
		 WHERE user_id = ?
		 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing categories for user %s: %w", userID, err)
	}
	return categories, nil
}

// UpdateCategoryTitle renames a category. It does not look at other titles.
func (db *DB) UpdateCategoryTitle(ctx context.Context, userID, id, title string) (*model.Category, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE categories SET title = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		title, time.Now().UTC(), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating category %s: %w", id, err)
	}
	if err := requireAffected(res, "category", id, "updating category "+id); err != nil {
		return nil, err
	}
	return db.GetCategoryByID(ctx, userID, id)
}

// DeleteCategory removes the category row. Songs referencing it are untouched.
func (db *DB) DeleteCategory(ctx context.Context, userID, id string) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting category %s: %w", id, err)
	}
	return requireAffected(res, "category", id, "deleting category "+id)
}
