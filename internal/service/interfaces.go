// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budgeter/internal/model"
)

// CategoryRepository manages the category table.
type CategoryRepository interface {
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	AddCategory(ctx context.Context, name string) error
	DeleteCategory(ctx context.Context, id int) error
}

// ExpenseRepository manages expenses and their CSV transfer.
type ExpenseRepository interface {
	AddExpense(ctx context.Context, amount decimal.Decimal, categoryID *int) (int, error)
	GetExpenses(ctx context.Context) ([]model.Expense, error)
	DeleteExpense(ctx context.Context, id int) error
	ExportCSV(ctx context.Context, path string) error
	ImportCSV(ctx context.Context, path string, opts model.ImportOptions) (*model.ImportReport, error)
}

// SnapshotRepository reads and writes the single budget snapshot.
type SnapshotRepository interface {
	GetSnapshot(ctx context.Context) (model.Snapshot, error)
	UpdateSnapshot(ctx context.Context, snap model.Snapshot) error
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	CategoryRepository
	ExpenseRepository
	SnapshotRepository

	// Initialize creates the schema and seed rows when missing.
	Initialize(ctx context.Context) error
}
