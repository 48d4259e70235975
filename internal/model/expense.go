package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the on-disk and CSV format of an expense date.
const TimestampLayout = "2006-01-02 15:04:05"

// Expense is a single dated monetary outflow, optionally tagged with a category.
type Expense struct {
	Amount decimal.Decimal
	// CategoryID is nil when the expense was never categorized.
	CategoryID *int
	// CategoryName is resolved at read time and is nil when the category
	// is missing or has since been deleted.
	CategoryName *string
	// OccurredAt is kept exactly as stored. Imported rows may carry
	// values that do not follow TimestampLayout.
	OccurredAt string
	ID         int
}

// CategoryLabel returns the category name, or an empty string when the
// expense has no live category.
func (e Expense) CategoryLabel() string {
	if e.CategoryName == nil {
		return ""
	}
	return *e.CategoryName
}

// Time parses OccurredAt in the local time zone.
func (e Expense) Time() (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, e.OccurredAt, time.Local)
}

// FormatTimestamp renders t the way expense dates are stored.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
