package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budgeter/internal/cli"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the budget file and seed default categories",
		Long: `Create the budget database if it does not exist yet, bring its schema up to
date and seed the default categories into an empty category table.

Running init on an existing budget is safe: nothing is overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}

			schemaVersion, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Budget ready at %s (schema v%d)", store.Path(), schemaVersion)))
			return printSummary(ctx, out, store)
		},
	}
}
