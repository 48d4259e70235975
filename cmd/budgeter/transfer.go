package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budgeter/internal/cli"
	"github.com/Veraticus/budgeter/internal/common"
	"github.com/Veraticus/budgeter/internal/model"
	"github.com/Veraticus/budgeter/internal/ofx"
	"github.com/Veraticus/budgeter/internal/storage"
)

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export all expenses to a CSV file",
		Long: `Write every expense to a CSV file with the header ID,Amount,Category,Date.
An existing file at path is replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}

			if err := store.ExportCSV(ctx, args[0]); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported expenses to %s", args[0])))
			return nil
		},
	}
}

// importFlags are shared by the CSV and OFX import commands.
type importFlags struct {
	continueOnError bool
	strictDates     bool
	noCheckpoint    bool
}

func (f *importFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.continueOnError, "continue-on-error", false, "skip bad rows instead of stopping at the first one")
	cmd.Flags().BoolVar(&f.strictDates, "strict-dates", false, "reject dates not in YYYY-MM-DD HH:MM:SS form")
	cmd.Flags().BoolVar(&f.noCheckpoint, "no-checkpoint", false, "skip the automatic checkpoint taken before importing")
}

// options merges the flags over the configured import defaults.
func (f *importFlags) options(cmd *cobra.Command) model.ImportOptions {
	opts := appConfig.Import
	if cmd.Flags().Changed("continue-on-error") {
		opts.ContinueOnError = f.continueOnError
	}
	if cmd.Flags().Changed("strict-dates") {
		opts.StrictDates = f.strictDates
	}
	return opts
}

func (f *importFlags) checkpoint() bool {
	return appConfig.AutoCheckpoint && !f.noCheckpoint
}

func importCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Import expenses from a CSV file",
		Long: `Import expenses from a CSV file with Amount, Category and Date columns
(an ID column is ignored). Unknown categories are created, a blank category
imports the expense without one.

Rows are saved one at a time. If a row fails, the rows before it stay
imported. An automatic checkpoint is taken first so a partial import can be
undone with 'budgeter checkpoint restore'.

Examples:
  budgeter import ~/Downloads/expenses.csv
  budgeter import old.csv --continue-on-error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			return runImport(cmd, &flags, path, -1, func(ctx context.Context, store *storage.SQLiteStorage, opts model.ImportOptions) (*model.ImportReport, error) {
				return store.ImportCSV(ctx, path, opts)
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func importOFXCmd() *cobra.Command {
	var (
		flags    importFlags
		category string
	)

	cmd := &cobra.Command{
		Use:   "import-ofx <path>",
		Short: "Import debits from an OFX/QFX bank statement",
		Long: `Import the debit transactions of an OFX or QFX statement exported from
your bank. Fees and ATM withdrawals are filed under "Bank Fees" and
"Cash & ATM"; everything else goes to --category.

Examples:
  budgeter import-ofx ~/Downloads/checking_jan.qfx
  budgeter import-ofx card.ofx --category Shopping`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !cmd.Flags().Changed("category") {
				category = appConfig.OFXCategory
			}

			records, err := parseOFXFile(cmd.Context(), path, category)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No debit transactions found in "+path))
				return nil
			}

			return runImport(cmd, &flags, path, len(records), func(ctx context.Context, store *storage.SQLiteStorage, opts model.ImportOptions) (*model.ImportReport, error) {
				return store.ImportRecords(ctx, path, ofx.NewSource(records), opts)
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&category, "category", "c", ofx.DefaultCategory, "category for transactions that are not fees or ATM withdrawals")

	return cmd
}

func parseOFXFile(ctx context.Context, path, category string) ([]model.ImportRecord, error) {
	// #nosec G304 - path comes from the user on purpose
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", common.ErrIOFailure, path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	parser := ofx.NewParser(ofx.WithCategory(category))
	return parser.ParseFile(ctx, file)
}

type importFunc func(ctx context.Context, store *storage.SQLiteStorage, opts model.ImportOptions) (*model.ImportReport, error)

// runImport takes the automatic checkpoint, drives the progress bar and
// reports where an interrupted or failed import left the budget.
func runImport(cmd *cobra.Command, flags *importFlags, path string, total int, run importFunc) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	out := cmd.OutOrStdout()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}

	var hint string
	if flags.checkpoint() {
		manager, cpErr := store.NewCheckpointManager()
		if cpErr != nil {
			return cpErr
		}
		info, cpErr := manager.AutoCheckpoint(ctx, "import")
		if cpErr != nil {
			return fmt.Errorf("failed to create checkpoint before import: %w", cpErr)
		}
		hint = fmt.Sprintf("Rows saved so far were kept. Undo the import with: budgeter checkpoint restore %s", info.ID)
	}

	handler := cli.NewInterruptHandler(out)
	ctx = handler.HandleInterrupts(ctx, hint)

	opts := flags.options(cmd)
	progress := cli.NewImportProgress(out, total, "Importing "+filepath.Base(path))
	opts.OnRow = progress.OnRow

	report, err := run(ctx, store, opts)
	progress.Finish(report)
	if err != nil {
		if hint != "" && !handler.WasInterrupted() {
			fmt.Fprintln(out, cli.FormatInfo(hint))
		}
		return fmt.Errorf("import stopped: %w", err)
	}

	return afterChange(ctx, out, store)
}
