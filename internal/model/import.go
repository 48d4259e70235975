package model

import "github.com/shopspring/decimal"

// ImportRecord is one raw row handed to the import pipeline, before any
// parsing or category resolution happens.
type ImportRecord struct {
	Amount   string
	Category string
	Date     string
	// Line is the 1-based position in the source, used in error messages.
	Line int
}

// ImportOptions controls how an import reacts to bad rows.
type ImportOptions struct {
	// OnRow is called after every row, successful or not.
	OnRow func(RowResult)
	// ContinueOnError skips failing rows instead of stopping at the first one.
	ContinueOnError bool
	// StrictDates rejects dates that do not follow TimestampLayout. Off by
	// default: dates are stored exactly as they appear in the file.
	StrictDates bool
}

// RowResult reports the outcome of importing one row.
type RowResult struct {
	Err       error
	Amount    decimal.Decimal
	Category  string
	Date      string
	Line      int
	ExpenseID int
}

// OK reports whether the row was stored.
func (r RowResult) OK() bool {
	return r.Err == nil
}

// ImportReport summarizes a finished (or interrupted) import. Rows stored
// before a failure stay stored; imports are not atomic.
type ImportReport struct {
	Source            string
	CategoriesCreated []string
	Rows              []RowResult
	Imported          int
	Failed            int
}

// Record appends a row result and updates the counters.
func (r *ImportReport) Record(row RowResult) {
	r.Rows = append(r.Rows, row)
	if row.OK() {
		r.Imported++
	} else {
		r.Failed++
	}
}
