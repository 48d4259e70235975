package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budgeter/internal/model"
)

// AddExpense records an expense timestamped with the current local time and
// returns its id. categoryID may be nil and is not checked against the
// category table.
func (s *SQLiteStorage) AddExpense(ctx context.Context, amount decimal.Decimal, categoryID *int) (int, error) {
	occurredAt := model.FormatTimestamp(s.now())

	var id int
	err := s.withConn(ctx, func(db *sql.DB) error {
		var err error
		id, err = insertExpense(ctx, db, amount, categoryID, occurredAt)
		return err
	})
	if err != nil {
		return 0, err
	}

	slog.Debug("added expense", "id", id, "amount", amount.String(), "date", occurredAt)
	return id, nil
}

// GetExpenses returns every expense, newest first, with category names
// joined in at read time.
func (s *SQLiteStorage) GetExpenses(ctx context.Context) ([]model.Expense, error) {
	var expenses []model.Expense
	err := s.withConn(ctx, func(db *sql.DB) error {
		query := `
			SELECT e.id, e.amount, e.category_id, c.name, COALESCE(e.date, '')
			FROM expenses e
			LEFT JOIN categories c ON e.category_id = c.id
			ORDER BY e.date DESC, e.id DESC`

		rows, err := db.QueryContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to query expenses: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				exp          model.Expense
				categoryID   sql.NullInt64
				categoryName sql.NullString
			)
			if err := rows.Scan(&exp.ID, &exp.Amount, &categoryID, &categoryName, &exp.OccurredAt); err != nil {
				return fmt.Errorf("failed to scan expense: %w", err)
			}
			if categoryID.Valid {
				id := int(categoryID.Int64)
				exp.CategoryID = &id
			}
			if categoryName.Valid {
				name := categoryName.String
				exp.CategoryName = &name
			}
			expenses = append(expenses, exp)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating expenses: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("retrieved expenses", "count", len(expenses))
	return expenses, nil
}

// DeleteExpense removes an expense. Unknown ids are ignored.
func (s *SQLiteStorage) DeleteExpense(ctx context.Context, id int) error {
	return s.withConn(ctx, func(db *sql.DB) error {
		result, err := db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		slog.Debug("deleted expense", "id", id, "affected", affected)
		return nil
	})
}

func insertExpense(ctx context.Context, q queryer, amount decimal.Decimal, categoryID *int, occurredAt string) (int, error) {
	if err := model.CheckStorable(amount); err != nil {
		return 0, err
	}

	var category any
	if categoryID != nil {
		category = *categoryID
	}

	result, err := q.ExecContext(ctx,
		`INSERT INTO expenses (amount, category_id, date) VALUES (?, ?, ?)`,
		amount.InexactFloat64(), category, occurredAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get expense ID: %w", err)
	}
	return int(id), nil
}
