package storage

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/budgeter/internal/common"
	"github.com/Veraticus/budgeter/internal/model"
)

// CSV column names.
const (
	ColumnID       = "ID"
	ColumnAmount   = "Amount"
	ColumnCategory = "Category"
	ColumnDate     = "Date"
)

// ExportHeader is the first row of every exported file.
var ExportHeader = []string{ColumnID, ColumnAmount, ColumnCategory, ColumnDate}

// RecordSource yields import records one at a time and returns io.EOF when
// exhausted.
type RecordSource interface {
	Next() (model.ImportRecord, error)
}

// ExportCSV writes every expense to path in list order. A failed write may
// leave a truncated file behind; it is not cleaned up.
func (s *SQLiteStorage) ExportCSV(ctx context.Context, path string) error {
	expenses, err := s.GetExpenses(ctx)
	if err != nil {
		return err
	}

	// #nosec G304 - path comes from the user on purpose
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", common.ErrIOFailure, path, err)
	}

	writeErr := WriteCSV(file, expenses)
	closeErr := file.Close()
	if writeErr != nil {
		return fmt.Errorf("%w: failed to write %s: %v", common.ErrIOFailure, path, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("%w: failed to close %s: %v", common.ErrIOFailure, path, closeErr)
	}

	slog.Info("exported expenses", "path", path, "count", len(expenses))
	return nil
}

// WriteCSV encodes expenses with the export header.
func WriteCSV(w io.Writer, expenses []model.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}

	for _, exp := range expenses {
		record := []string{
			strconv.Itoa(exp.ID),
			exp.Amount.String(),
			exp.CategoryLabel(),
			exp.OccurredAt,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ImportCSV reads expenses from a CSV file with at least Amount, Category
// and Date columns. Any ID column is ignored and ids are regenerated.
//
// Rows are committed one at a time. When a row fails, rows before it stay
// imported; the returned report lists what happened to every row.
func (s *SQLiteStorage) ImportCSV(ctx context.Context, path string, opts model.ImportOptions) (*model.ImportReport, error) {
	// #nosec G304 - path comes from the user on purpose
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", common.ErrIOFailure, path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Error("failed to close import file", "path", path, "error", closeErr)
		}
	}()

	src, err := NewCSVSource(file, path)
	if err != nil {
		return nil, err
	}

	return s.ImportRecords(ctx, path, src, opts)
}

// ImportRecords stores every record from src. Categories are resolved by
// exact name and created when missing; a blank category stores the expense
// without one. Dates are kept verbatim unless opts.StrictDates is set.
func (s *SQLiteStorage) ImportRecords(ctx context.Context, source string, src RecordSource, opts model.ImportOptions) (*model.ImportReport, error) {
	report := &model.ImportReport{Source: source}

	err := s.withConn(ctx, func(db *sql.DB) error {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}

			rec, err := src.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				// Unreadable input ends the import regardless of ContinueOnError
				return err
			}

			row := importRecord(ctx, db, source, rec, opts, report)
			report.Record(row)
			if opts.OnRow != nil {
				opts.OnRow(row)
			}

			if row.Err != nil && !opts.ContinueOnError {
				return row.Err
			}
		}
	})

	slog.Info("import finished",
		"source", source,
		"imported", report.Imported,
		"failed", report.Failed,
		"categories_created", len(report.CategoriesCreated))

	if err != nil {
		return report, err
	}
	return report, nil
}

// importRecord validates and stores one record.
func importRecord(ctx context.Context, db *sql.DB, source string, rec model.ImportRecord, opts model.ImportOptions, report *model.ImportReport) model.RowResult {
	row := model.RowResult{
		Line: rec.Line,
		// Names are stored trimmed, so the exact-match lookup compares trimmed cells
		Category: strings.TrimSpace(rec.Category),
		Date:     rec.Date,
	}

	amount, err := model.ParseAmount(rec.Amount)
	if err != nil {
		row.Err = fmt.Errorf("%s:%d: %w", source, rec.Line, err)
		return row
	}
	row.Amount = amount

	if opts.StrictDates {
		if _, err := time.ParseInLocation(model.TimestampLayout, rec.Date, time.Local); err != nil {
			row.Err = fmt.Errorf("%s:%d: %w: date %q does not match %s",
				source, rec.Line, common.ErrInvalidInput, rec.Date, model.TimestampLayout)
			return row
		}
	}

	var categoryID *int
	if row.Category != "" {
		id, created, err := ensureCategory(ctx, db, row.Category)
		if err != nil {
			row.Err = fmt.Errorf("%s:%d: %w", source, rec.Line, err)
			return row
		}
		if created {
			report.CategoriesCreated = append(report.CategoriesCreated, row.Category)
		}
		categoryID = &id
	}

	id, err := insertExpense(ctx, db, amount, categoryID, rec.Date)
	if err != nil {
		row.Err = fmt.Errorf("%s:%d: %w", source, rec.Line, err)
		return row
	}
	row.ExpenseID = id
	return row
}

// CSVSource reads import records from CSV, locating columns by header name.
type CSVSource struct {
	reader  *csv.Reader
	columns map[string]int
	source  string
}

// NewCSVSource reads the header row and checks the required columns exist.
func NewCSVSource(r io.Reader, source string) (*CSVSource, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s is empty", common.ErrInvalidInput, source)
	}
	if err != nil {
		return nil, wrapCSVReadError(source, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}

	var missing []string
	for _, required := range []string{ColumnAmount, ColumnCategory, ColumnDate} {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s: missing column(s) %s",
			common.ErrInvalidInput, source, strings.Join(missing, ", "))
	}

	return &CSVSource{reader: reader, columns: columns, source: source}, nil
}

// Next returns the next data row.
func (c *CSVSource) Next() (model.ImportRecord, error) {
	fields, err := c.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return model.ImportRecord{}, io.EOF
		}
		return model.ImportRecord{}, wrapCSVReadError(c.source, err)
	}

	line, _ := c.reader.FieldPos(0)
	return model.ImportRecord{
		Line:     line,
		Amount:   c.field(fields, ColumnAmount),
		Category: c.field(fields, ColumnCategory),
		Date:     c.field(fields, ColumnDate),
	}, nil
}

// field returns an empty string for short rows; an empty amount then fails
// validation with the row's line number.
func (c *CSVSource) field(fields []string, column string) string {
	idx := c.columns[column]
	if idx >= len(fields) {
		return ""
	}
	return fields[idx]
}

func wrapCSVReadError(source string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %s:%d: %v", common.ErrInvalidInput, source, parseErr.Line, parseErr.Err)
	}
	return fmt.Errorf("%w: reading %s: %v", common.ErrIOFailure, source, err)
}
