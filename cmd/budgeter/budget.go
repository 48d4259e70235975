package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/budgeter/internal/common"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Show or update income, savings and cash on hand",
	}

	cmd.AddCommand(budgetShowCmd())
	cmd.AddCommand(budgetSetCmd())

	return cmd
}

func budgetShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the budget snapshot and summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			return printSummary(cmd.Context(), cmd.OutOrStdout(), store)
		},
	}
}

func budgetSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the budget snapshot",
		Long: `Update income, savings and cash on hand. Values that are not given keep
their current amount.

Examples:
  budgeter budget set --income 3000 --savings 500
  budgeter budget set --cash 1250.40`,
		Args: cobra.NoArgs,
		RunE: runBudgetSet,
	}

	cmd.Flags().String("income", "", "monthly income")
	cmd.Flags().String("savings", "", "monthly savings goal")
	cmd.Flags().String("cash", "", "cash on hand")

	return cmd
}

func runBudgetSet(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	if !flags.Changed("income") && !flags.Changed("savings") && !flags.Changed("cash") {
		return fmt.Errorf("%w: set at least one of --income, --savings or --cash", common.ErrInvalidInput)
	}

	// Validate every flag before opening the store
	values := make(map[string]decimal.Decimal)
	for _, name := range []string{"income", "savings", "cash"} {
		if !flags.Changed(name) {
			continue
		}
		value, _ := flags.GetString(name)
		amount, err := parseAmountFlag(name, value)
		if err != nil {
			return err
		}
		values[name] = amount
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}

	snap, err := store.GetSnapshot(ctx)
	if err != nil {
		return err
	}

	for name, amount := range values {
		switch name {
		case "income":
			snap.Income = amount
		case "savings":
			snap.Savings = amount
		case "cash":
			snap.Cash = amount
		}
	}

	if err := store.UpdateSnapshot(ctx, snap); err != nil {
		return err
	}

	return printSummary(ctx, cmd.OutOrStdout(), store)
}
