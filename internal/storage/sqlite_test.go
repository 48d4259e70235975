package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budgeter/internal/common"
	"github.com/Veraticus/budgeter/internal/model"
)

var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.Local)

// createTestStorage returns an initialized store backed by a temp file.
func createTestStorage(t *testing.T, opts ...Option) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "budget.db")

	store, err := NewSQLiteStorage(dbPath, opts...)
	require.NoError(t, err)
	require.NoError(t, store.Initialize(context.Background()))

	return store
}

// rawDB opens the store's file directly for assertions the API does not expose.
func rawDB(t *testing.T, store *SQLiteStorage) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", store.Path())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := NewSQLiteStorage("  ")
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})

	t.Run("creates parent directory", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "dir", "budget.db")
		store, err := NewSQLiteStorage(dbPath)
		require.NoError(t, err)
		assert.Equal(t, dbPath, store.Path())

		info, err := os.Stat(filepath.Dir(dbPath))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("unusable directory", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

		_, err := NewSQLiteStorage(filepath.Join(blocker, "budget.db"))
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrStorageUnavailable)
	})
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds snapshot and default categories", func(t *testing.T) {
		store := createTestStorage(t)

		snap, err := store.GetSnapshot(ctx)
		require.NoError(t, err)
		assert.True(t, snap.Income.IsZero())
		assert.True(t, snap.Savings.IsZero())
		assert.True(t, snap.Cash.IsZero())

		cats, err := store.GetCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Food", "Gas", "Personal", "Rent", "Utilities"}, categoryNames(cats))

		version, err := store.SchemaVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, ExpectedSchemaVersion, version)
	})

	t.Run("idempotent", func(t *testing.T) {
		store := createTestStorage(t)
		require.NoError(t, store.UpdateSnapshot(ctx, snapshot("1000", "10", "50")))
		_, err := store.AddExpense(ctx, dec("12.50"), nil)
		require.NoError(t, err)

		require.NoError(t, store.Initialize(ctx))
		require.NoError(t, store.Initialize(ctx))

		snap, err := store.GetSnapshot(ctx)
		require.NoError(t, err)
		assert.True(t, snap.Income.Equal(dec("1000")))

		cats, err := store.GetCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, cats, len(model.DefaultCategories))

		expenses, err := store.GetExpenses(ctx)
		require.NoError(t, err)
		assert.Len(t, expenses, 1)

		var budgetRows int
		require.NoError(t, rawDB(t, store).QueryRow(`SELECT COUNT(*) FROM budget`).Scan(&budgetRows))
		assert.Equal(t, 1, budgetRows)
	})

	t.Run("does not reseed after all categories are deleted", func(t *testing.T) {
		store := createTestStorage(t)
		require.NoError(t, store.AddCategory(ctx, "Travel"))

		cats, err := store.GetCategories(ctx)
		require.NoError(t, err)
		for _, c := range cats {
			if c.Name != "Travel" {
				require.NoError(t, store.DeleteCategory(ctx, c.ID))
			}
		}

		require.NoError(t, store.Initialize(ctx))
		cats, err = store.GetCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Travel"}, categoryNames(cats))
	})

	t.Run("custom defaults", func(t *testing.T) {
		store := createTestStorage(t, WithDefaultCategories([]string{" Books ", "", "Coffee"}))

		cats, err := store.GetCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Books", "Coffee"}, categoryNames(cats))
	})

	t.Run("legacy file without user_version", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "budget.db")
		legacy, err := sql.Open("sqlite3", dbPath)
		require.NoError(t, err)
		for _, stmt := range []string{
			`CREATE TABLE budget (id INTEGER PRIMARY KEY, income REAL, savings REAL, cash REAL)`,
			`CREATE TABLE categories (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT UNIQUE NOT NULL)`,
			`CREATE TABLE expenses (id INTEGER PRIMARY KEY AUTOINCREMENT, amount REAL NOT NULL,
				category_id INTEGER, date TEXT DEFAULT CURRENT_TIMESTAMP)`,
			`INSERT INTO budget (id, income, savings, cash) VALUES (1, 2000, 15, 300)`,
			`INSERT INTO categories (name) VALUES ('Legacy')`,
			`INSERT INTO expenses (amount, category_id, date) VALUES (40.25, 1, '2023-01-02 03:04:05')`,
		} {
			_, err := legacy.Exec(stmt)
			require.NoError(t, err)
		}
		require.NoError(t, legacy.Close())

		store, err := NewSQLiteStorage(dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Initialize(ctx))

		snap, err := store.GetSnapshot(ctx)
		require.NoError(t, err)
		assert.True(t, snap.Income.Equal(dec("2000")))
		assert.True(t, snap.Cash.Equal(dec("300")))

		cats, err := store.GetCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Legacy"}, categoryNames(cats))

		expenses, err := store.GetExpenses(ctx)
		require.NoError(t, err)
		require.Len(t, expenses, 1)
		assert.Equal(t, "Legacy", expenses[0].CategoryLabel())
		assert.True(t, expenses[0].Amount.Equal(dec("40.25")))
	})
}

func TestStorageUnavailable(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	ctx := context.Background()

	dir := filepath.Join(t.TempDir(), "locked")
	require.NoError(t, os.MkdirAll(dir, 0750))
	store, err := NewSQLiteStorage(filepath.Join(dir, "budget.db"))
	require.NoError(t, err)

	require.NoError(t, os.Chmod(dir, 0500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0750) })

	err = store.Initialize(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrStorageUnavailable)
}

func TestNilContext(t *testing.T) {
	store := createTestStorage(t)

	//nolint:staticcheck // testing nil context handling
	_, err := store.GetCategories(nil)
	assert.ErrorIs(t, err, ErrNilContext)
}

func categoryNames(cats []model.Category) []string {
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	return names
}
