package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budgeter/internal/cli"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage expense categories",
		Long:    `List, add and delete the categories expenses are filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(categories) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No categories found."))
				return nil
			}

			fmt.Fprintln(out, cli.RenderCategories(categories))
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Long: `Add a new category. Names are trimmed; adding a name that already exists
does nothing. Names are case-sensitive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}

			if err := store.AddCategory(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to add category: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Category %q saved", args[0])))
			return nil
		},
	}
}

func deleteCategoryCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long: `Delete a category by id. Expenses filed under it are kept and show up
without a category afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if !yes {
				confirmer := cli.NewConfirmer(cmd.InOrStdin(), out)
				ok, confirmErr := confirmer.Confirm(ctx, fmt.Sprintf("Delete category %d?", id))
				if confirmErr != nil {
					return confirmErr
				}
				if !ok {
					fmt.Fprintln(out, cli.FormatInfo("Deletion canceled"))
					return nil
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}

			if err := store.DeleteCategory(ctx, id); err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Category %d deleted", id)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}
