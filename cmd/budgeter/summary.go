package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budgeter/internal/cli"
	"github.com/Veraticus/budgeter/internal/summary"
)

func summaryCmd() *cobra.Command {
	var byCategory bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show remaining budget, savings rate and weekly allowance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := printSummary(ctx, out, store); err != nil {
				return err
			}
			if !byCategory {
				return nil
			}

			expenses, err := store.GetExpenses(ctx)
			if err != nil {
				return fmt.Errorf("failed to get expenses: %w", err)
			}
			totals := summary.ByCategory(expenses)
			if len(totals) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No expenses recorded yet."))
				return nil
			}
			fmt.Fprintln(out, cli.RenderCategoryTotals(totals))
			return nil
		},
	}

	cmd.Flags().BoolVar(&byCategory, "by-category", false, "also break spending down by category")

	return cmd
}
