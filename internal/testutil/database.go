// Package testutil provides shared test fixtures backed by a real budget file.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budgeter/internal/model"
	"github.com/Veraticus/budgeter/internal/storage"
)

// ExpenseFixture describes an expense to seed. An empty Category leaves the
// expense uncategorized; an unknown one is created first.
type ExpenseFixture struct {
	Amount   string
	Category string
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	Snapshot   *model.Snapshot
	Categories []string
	Expenses   []ExpenseFixture
	// Now fixes the clock used for seeded and later expenses.
	Now func() time.Time
}

// TestDB is an initialized store in a per-test temp directory.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
	Path    string
}

// SetupTestStore creates an initialized store seeded with the default
// categories. The per-call connection model rules out ":memory:", so each
// test gets its own file.
func SetupTestStore(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestStoreWithOptions(t, TestDBOptions{})
}

// SetupTestStoreWithOptions creates an initialized store and seeds it.
func SetupTestStoreWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "budget.db")
	var storeOpts []storage.Option
	if opts.Now != nil {
		storeOpts = append(storeOpts, storage.WithClock(opts.Now))
	}

	store, err := storage.NewSQLiteStorage(dbPath, storeOpts...)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Initialize(ctx); err != nil {
		t.Fatalf("failed to initialize test database: %v", err)
	}

	db := &TestDB{Storage: store, Path: dbPath, t: t}

	for _, name := range opts.Categories {
		if err := store.AddCategory(ctx, name); err != nil {
			t.Fatalf("failed to seed category %q: %v", name, err)
		}
	}

	if opts.Snapshot != nil {
		if err := store.UpdateSnapshot(ctx, *opts.Snapshot); err != nil {
			t.Fatalf("failed to seed snapshot: %v", err)
		}
	}

	for _, fixture := range opts.Expenses {
		db.AddExpense(fixture.Amount, fixture.Category)
	}

	return db
}

// AddExpense stores an expense or fails the test.
func (db *TestDB) AddExpense(amount, category string) int {
	db.t.Helper()
	ctx := context.Background()

	value, err := decimal.NewFromString(amount)
	if err != nil {
		db.t.Fatalf("bad fixture amount %q: %v", amount, err)
	}

	var categoryID *int
	if category != "" {
		id := db.MustCategoryID(category)
		categoryID = &id
	}

	id, err := db.Storage.AddExpense(ctx, value, categoryID)
	if err != nil {
		db.t.Fatalf("failed to seed expense: %v", err)
	}
	return id
}

// MustCategoryID returns the id for name, creating the category if needed.
func (db *TestDB) MustCategoryID(name string) int {
	db.t.Helper()
	ctx := context.Background()

	if err := db.Storage.AddCategory(ctx, name); err != nil {
		db.t.Fatalf("failed to add category %q: %v", name, err)
	}
	cat, err := db.Storage.GetCategoryByName(ctx, name)
	if err != nil || cat == nil {
		db.t.Fatalf("category %q not found: %v", name, err)
	}
	return cat.ID
}

// Expenses lists stored expenses or fails the test.
func (db *TestDB) Expenses() []model.Expense {
	db.t.Helper()
	expenses, err := db.Storage.GetExpenses(context.Background())
	if err != nil {
		db.t.Fatalf("failed to list expenses: %v", err)
	}
	return expenses
}
