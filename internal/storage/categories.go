package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/budgeter/internal/model"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// GetCategories returns all categories sorted by name.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := s.withConn(ctx, func(db *sql.DB) error {
		query := `
			SELECT id, name
			FROM categories
			ORDER BY name ASC`

		rows, err := db.QueryContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to query categories: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var cat model.Category
			if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
				return fmt.Errorf("failed to scan category: %w", err)
			}
			categories = append(categories, cat)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating categories: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategoryByName returns the category with exactly this name, or nil
// when there is none. Matching is case-sensitive.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	name, err := normalizeCategoryName(name)
	if err != nil {
		return nil, err
	}

	var cat *model.Category
	err = s.withConn(ctx, func(db *sql.DB) error {
		found, lookupErr := getCategoryByName(ctx, db, name)
		cat = found
		return lookupErr
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// AddCategory inserts a category. The name is trimmed and must not be
// empty; adding a name that already exists is a no-op.
func (s *SQLiteStorage) AddCategory(ctx context.Context, name string) error {
	name, err := normalizeCategoryName(name)
	if err != nil {
		return err
	}

	return s.withConn(ctx, func(db *sql.DB) error {
		created, err := insertCategory(ctx, db, name)
		if err != nil {
			return err
		}
		if created {
			slog.Info("created new category", "name", name)
		} else {
			slog.Debug("category already exists", "name", name)
		}
		return nil
	})
}

// DeleteCategory removes a category row. Expenses that reference it are
// left untouched and read back without a category. Unknown ids are ignored.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id int) error {
	return s.withConn(ctx, func(db *sql.DB) error {
		result, err := db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		slog.Debug("deleted category", "id", id, "affected", affected)
		return nil
	})
}

func getCategoryByName(ctx context.Context, q queryer, name string) (*model.Category, error) {
	query := `
		SELECT id, name
		FROM categories
		WHERE name = ?`

	var cat model.Category
	err := q.QueryRowContext(ctx, query, name).Scan(&cat.ID, &cat.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Category not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &cat, nil
}

// insertCategory reports whether a new row was written.
func insertCategory(ctx context.Context, q queryer, name string) (bool, error) {
	result, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO categories (name) VALUES (?)`, name)
	if err != nil {
		return false, fmt.Errorf("failed to create category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// ensureCategory resolves name to an id, creating the category if needed.
func ensureCategory(ctx context.Context, q queryer, name string) (id int, created bool, err error) {
	existing, err := getCategoryByName(ctx, q, name)
	if err != nil {
		return 0, false, err
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	created, err = insertCategory(ctx, q, name)
	if err != nil {
		return 0, false, err
	}

	cat, err := getCategoryByName(ctx, q, name)
	if err != nil {
		return 0, false, err
	}
	if cat == nil {
		return 0, false, fmt.Errorf("category %q missing after insert", name)
	}
	return cat.ID, created, nil
}
