package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/budgeter/internal/common"
	"github.com/Veraticus/budgeter/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the budget repositories on top of a single
// SQLite file. It holds no connection: every operation opens its own and
// closes it before returning.
type SQLiteStorage struct {
	now               func() time.Time
	dbPath            string
	defaultCategories []string
}

// Option configures a SQLiteStorage.
type Option func(*SQLiteStorage)

// WithClock overrides the clock used to timestamp new expenses.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStorage) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDefaultCategories overrides the names seeded into an empty category table.
func WithDefaultCategories(names []string) Option {
	return func(s *SQLiteStorage) {
		var cleaned []string
		for _, name := range names {
			if name = strings.TrimSpace(name); name != "" {
				cleaned = append(cleaned, name)
			}
		}
		if len(cleaned) > 0 {
			s.defaultCategories = cleaned
		}
	}
}

// NewSQLiteStorage creates a new SQLite storage instance for dbPath.
func NewSQLiteStorage(dbPath string, opts ...Option) (*SQLiteStorage, error) {
	// Validate input
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("%w: failed to create database directory: %v", common.ErrStorageUnavailable, err)
	}

	s := &SQLiteStorage{
		dbPath:            dbPath,
		now:               time.Now,
		defaultCategories: model.DefaultCategories,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Path returns the data file location.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// open acquires a connection scope. Foreign keys stay declared but
// unenforced so category deletion never cascades to or is blocked by expenses.
func (s *SQLiteStorage) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", s.dbPath+"?_busy_timeout=5000&_foreign_keys=0")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", common.ErrStorageUnavailable, err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Test connection; this is where a missing or unwritable file surfaces
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: failed to open %s: %v", common.ErrStorageUnavailable, s.dbPath, err)
	}

	return db, nil
}

// withConn runs fn inside a connection scope that is released on every
// exit path, including a panic or error inside fn.
func (s *SQLiteStorage) withConn(ctx context.Context, fn func(*sql.DB) error) (err error) {
	if err := validateContext(ctx); err != nil {
		return err
	}

	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "path", s.dbPath, "error", closeErr)
			if err == nil {
				err = fmt.Errorf("failed to close database: %w", closeErr)
			}
		}
	}()

	return fn(db)
}

// Initialize guarantees the schema exists and the seed rows are present.
// It is safe to call any number of times and never overwrites existing rows.
func (s *SQLiteStorage) Initialize(ctx context.Context) error {
	return s.withConn(ctx, func(db *sql.DB) error {
		if err := migrate(ctx, db); err != nil {
			return err
		}
		return s.seed(ctx, db)
	})
}

// seed inserts the snapshot row and the default categories when missing.
func (s *SQLiteStorage) seed(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() {
		// No-op after a successful commit
		_ = tx.Rollback()
	}()

	var budgetRows int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM budget`).Scan(&budgetRows); err != nil {
		return fmt.Errorf("failed to count budget rows: %w", err)
	}
	if budgetRows == 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO budget (id, income, savings, cash) VALUES (1, 0, 0, 0)`); err != nil {
			return fmt.Errorf("failed to seed budget snapshot: %w", err)
		}
		slog.Info("created budget snapshot")
	}

	var categoryRows int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&categoryRows); err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if categoryRows == 0 {
		for _, name := range s.defaultCategories {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO categories (name) VALUES (?)`, name); err != nil {
				return fmt.Errorf("failed to seed category %q: %w", name, err)
			}
		}
		slog.Info("seeded default categories", "count", len(s.defaultCategories))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed data: %w", err)
	}
	return nil
}
