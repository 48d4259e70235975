package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budgeter/internal/cli"
	"github.com/Veraticus/budgeter/internal/common"
	"github.com/Veraticus/budgeter/internal/model"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expenses",
		Aliases: []string{"expense", "exp"},
		Short:   "Record and review expenses",
	}

	cmd.AddCommand(listExpensesCmd())
	cmd.AddCommand(addExpenseCmd())
	cmd.AddCommand(deleteExpenseCmd())

	return cmd
}

func listExpensesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List expenses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}

			expenses, err := store.GetExpenses(ctx)
			if err != nil {
				return fmt.Errorf("failed to get expenses: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(expenses) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No expenses recorded yet."))
				return nil
			}

			fmt.Fprintln(out, cli.RenderExpenses(expenses))
			return nil
		},
	}
}

func addExpenseCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record an expense",
		Long: `Record an expense stamped with the current time.

Examples:
  budgeter expenses add 12.50 --category Food
  budgeter expenses add 40`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := model.ParsePositiveAmount(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}

			var categoryID *int
			if cmd.Flags().Changed("category") {
				cat, lookupErr := store.GetCategoryByName(ctx, category)
				if lookupErr != nil {
					return lookupErr
				}
				if cat == nil {
					return common.NewUserError(
						fmt.Sprintf("unknown category %q; add it with 'budgeter categories add'", category),
						common.ErrInvalidInput)
				}
				categoryID = &cat.ID
			}

			id, err := store.AddExpense(ctx, amount, categoryID)
			if err != nil {
				return fmt.Errorf("failed to add expense: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Expense %d recorded: %s", id, cli.FormatMoney(amount))))
			return afterChange(ctx, out, store)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category name (must already exist)")

	return cmd
}

func deleteExpenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}

			if err := store.DeleteExpense(ctx, id); err != nil {
				return fmt.Errorf("failed to delete expense: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Expense %d deleted", id)))
			return afterChange(ctx, out, store)
		},
	}
}
