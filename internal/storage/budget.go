package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/budgeter/internal/common"
	"github.com/Veraticus/budgeter/internal/model"
)

// GetSnapshot returns the budget snapshot row.
func (s *SQLiteStorage) GetSnapshot(ctx context.Context) (model.Snapshot, error) {
	var snap model.Snapshot
	err := s.withConn(ctx, func(db *sql.DB) error {
		err := db.QueryRowContext(ctx,
			`SELECT income, savings, cash FROM budget WHERE id = 1`,
		).Scan(&snap.Income, &snap.Savings, &snap.Cash)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: budget snapshot (run initialize)", common.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to query budget snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Snapshot{}, err
	}
	return snap, nil
}

// UpdateSnapshot overwrites income, savings and cash in one statement.
func (s *SQLiteStorage) UpdateSnapshot(ctx context.Context, snap model.Snapshot) error {
	if err := validateSnapshot(snap); err != nil {
		return err
	}

	return s.withConn(ctx, func(db *sql.DB) error {
		result, err := db.ExecContext(ctx,
			`UPDATE budget SET income = ?, savings = ?, cash = ? WHERE id = 1`,
			snap.Income.InexactFloat64(), snap.Savings.InexactFloat64(), snap.Cash.InexactFloat64())
		if err != nil {
			return fmt.Errorf("failed to update budget snapshot: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: budget snapshot (run initialize)", common.ErrNotFound)
		}

		slog.Info("updated budget snapshot",
			"income", snap.Income.String(),
			"savings", snap.Savings.String(),
			"cash", snap.Cash.String())
		return nil
	})
}
