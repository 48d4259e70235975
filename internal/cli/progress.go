package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/budgeter/internal/model"
)

// ImportProgress reports import rows as they are stored.
type ImportProgress struct {
	writer   io.Writer
	bar      *progressbar.ProgressBar
	failures []model.RowResult
}

// NewImportProgress creates a progress bar for an import of total rows.
// A negative total shows a spinner for sources of unknown length.
func NewImportProgress(w io.Writer, total int, description string) *ImportProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)

	return &ImportProgress{writer: w, bar: bar}
}

// OnRow advances the bar. It matches model.ImportOptions.OnRow.
func (p *ImportProgress) OnRow(row model.RowResult) {
	if !row.OK() {
		p.failures = append(p.failures, row)
	}
	if err := p.bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Finish completes the bar and prints the outcome of the import.
func (p *ImportProgress) Finish(report *model.ImportReport) {
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
	if report == nil {
		return
	}

	lines := []string{FormatSuccess(fmt.Sprintf("Imported %d expense(s) from %s", report.Imported, report.Source))}
	for _, name := range report.CategoriesCreated {
		lines = append(lines, FormatInfo(fmt.Sprintf("Created category %q", name)))
	}
	for _, row := range p.failures {
		lines = append(lines, FormatError(row.Err.Error()))
	}
	if report.Failed > 0 {
		lines = append(lines, FormatWarning(fmt.Sprintf("%d row(s) were not imported", report.Failed)))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(p.writer, line); err != nil {
			slog.Warn("Failed to write import summary", "error", err)
			return
		}
	}
}
