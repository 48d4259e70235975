package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budgeter/internal/cli"
	"github.com/Veraticus/budgeter/internal/common"
	"github.com/Veraticus/budgeter/internal/model"
	"github.com/Veraticus/budgeter/internal/service"
	"github.com/Veraticus/budgeter/internal/storage"
	"github.com/Veraticus/budgeter/internal/summary"
)

// initStorage opens the configured budget file and brings its schema up to
// date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(appConfig.DatabasePath,
		storage.WithDefaultCategories(appConfig.DefaultCategories))
	if err != nil {
		return nil, err
	}

	if err := store.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return store, nil
}

// printSummary renders the current snapshot and its derived figures.
func printSummary(ctx context.Context, w io.Writer, store service.Storage) error {
	snap, err := store.GetSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to load budget: %w", err)
	}
	expenses, err := store.GetExpenses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}

	fmt.Fprintln(w, cli.RenderSummary(snap, summary.Summarize(snap, expenses)))
	return nil
}

// afterChange prints a fresh summary when summary.after_change is set.
func afterChange(ctx context.Context, w io.Writer, store service.Storage) error {
	if !appConfig.SummaryAfterChange {
		return nil
	}
	return printSummary(ctx, w, store)
}

// parseAmountFlag validates a money flag before anything touches storage.
func parseAmountFlag(name, value string) (decimal.Decimal, error) {
	amount, err := model.ParseAmount(value)
	if err != nil {
		return decimal.Zero, common.NewUserError(fmt.Sprintf("--%s must be a number", name), err)
	}
	return amount, nil
}

// parseID parses a positional row id.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive whole number, got %q", common.ErrInvalidInput, arg)
	}
	return id, nil
}

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

func formatRelativeTime(t time.Time) string {
	duration := time.Since(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		return plural(int(duration.Minutes()), "minute") + " ago"
	case duration < 24*time.Hour:
		return plural(int(duration.Hours()), "hour") + " ago"
	case duration < 48*time.Hour:
		return "yesterday"
	case duration < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(duration.Hours()/24))
	default:
		return t.Format("2006-01-02 15:04")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
