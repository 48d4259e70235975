package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Veraticus/budgeter/internal/cli"
	"github.com/Veraticus/budgeter/internal/storage"
)

func checkpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Manage budget checkpoints",
		Long: `Create, list, restore, and delete copies of the budget file.

Imports take an automatic checkpoint first; the five most recent automatic
checkpoints are kept. Manual checkpoints are kept until deleted.`,
		Example: `  # Save the budget before a big cleanup
  budgeter checkpoint create --tag before-cleanup

  # List all checkpoints
  budgeter checkpoint list

  # Undo a partial import
  budgeter checkpoint restore auto-import-2026-03-01-101500.000000000`,
	}

	cmd.AddCommand(createCheckpointCmd())
	cmd.AddCommand(listCheckpointsCmd())
	cmd.AddCommand(restoreCheckpointCmd())
	cmd.AddCommand(deleteCheckpointCmd())

	return cmd
}

// openCheckpoints initializes storage and returns its checkpoint manager.
func openCheckpoints(cmd *cobra.Command) (*storage.CheckpointManager, error) {
	store, err := initStorage(cmd.Context())
	if err != nil {
		return nil, err
	}
	manager, err := store.NewCheckpointManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create checkpoint manager: %w", err)
	}
	return manager, nil
}

func createCheckpointCmd() *cobra.Command {
	var tag string
	var description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new checkpoint",
		Long:  `Copy the current budget file into the checkpoints directory.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := openCheckpoints(cmd)
			if err != nil {
				return err
			}

			info, err := manager.Create(cmd.Context(), tag, description)
			if err != nil {
				return fmt.Errorf("failed to create checkpoint: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Created checkpoint %s (%s)\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(info.ID),
				formatFileSize(info.FileSize))
			if info.Description != "" {
				fmt.Fprintf(out, "  Description: %s\n", info.Description)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Checkpoint tag/name (auto-generated if not provided)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description of the checkpoint")

	return cmd
}

func listCheckpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all checkpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := openCheckpoints(cmd)
			if err != nil {
				return err
			}

			checkpoints, err := manager.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list checkpoints: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(checkpoints) == 0 {
				fmt.Fprintln(out, cli.SubtleStyle.Render("No checkpoints found."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor)
			fmt.Fprintln(w, strings.Join([]string{
				headerStyle.Render("NAME"),
				headerStyle.Render("CREATED"),
				headerStyle.Render("SIZE"),
				headerStyle.Render("EXPENSES"),
				headerStyle.Render("CATEGORIES"),
				headerStyle.Render("TYPE"),
			}, "\t"))

			for _, cp := range checkpoints {
				typeLabel := "manual"
				if cp.IsAuto {
					typeLabel = "auto"
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
					cli.InfoStyle.Render(cp.ID),
					formatRelativeTime(cp.CreatedAt),
					formatFileSize(cp.FileSize),
					cp.Expenses,
					cp.Categories,
					cli.SubtleStyle.Render(typeLabel),
				)
			}

			return w.Flush()
		},
	}
}

func restoreCheckpointCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <checkpoint-id>",
		Short: "Restore the budget from a checkpoint",
		Long:  `Replace the current budget file with a checkpoint.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			checkpointID := args[0]

			manager, err := openCheckpoints(cmd)
			if err != nil {
				return err
			}

			info, err := manager.GetCheckpointInfo(ctx, checkpointID)
			if err != nil {
				return fmt.Errorf("failed to get checkpoint info: %w", err)
			}

			out := cmd.OutOrStdout()
			if !force {
				fmt.Fprintf(out, "%s This will replace your current budget with checkpoint %s.\n",
					cli.WarningStyle.Render(cli.WarningIcon),
					cli.InfoStyle.Render(checkpointID))
				fmt.Fprintf(out, "  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
				if info.Description != "" {
					fmt.Fprintf(out, "  Description: %s\n", info.Description)
				}

				ok, confirmErr := cli.NewConfirmer(cmd.InOrStdin(), out).Confirm(ctx, "Continue?")
				if confirmErr != nil {
					return confirmErr
				}
				if !ok {
					fmt.Fprintln(out, cli.SubtleStyle.Render("Restore canceled."))
					return nil
				}
			}

			if err := manager.Restore(ctx, checkpointID); err != nil {
				return fmt.Errorf("failed to restore checkpoint: %w", err)
			}

			fmt.Fprintf(out, "%s Restored from checkpoint %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(checkpointID))

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func deleteCheckpointCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <checkpoint-id>",
		Short: "Delete a checkpoint",
		Long:  `Permanently remove a checkpoint.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			checkpointID := args[0]

			manager, err := openCheckpoints(cmd)
			if err != nil {
				return err
			}

			info, err := manager.GetCheckpointInfo(ctx, checkpointID)
			if err != nil {
				return fmt.Errorf("failed to get checkpoint info: %w", err)
			}

			out := cmd.OutOrStdout()
			if !force {
				fmt.Fprintf(out, "%s This will permanently delete checkpoint %s.\n",
					cli.WarningStyle.Render(cli.WarningIcon),
					cli.InfoStyle.Render(checkpointID))
				fmt.Fprintf(out, "  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "  Size: %s\n", formatFileSize(info.FileSize))

				ok, confirmErr := cli.NewConfirmer(cmd.InOrStdin(), out).Confirm(ctx, "Continue?")
				if confirmErr != nil {
					return confirmErr
				}
				if !ok {
					fmt.Fprintln(out, cli.SubtleStyle.Render("Deletion canceled."))
					return nil
				}
			}

			if err := manager.Delete(ctx, checkpointID); err != nil {
				return fmt.Errorf("failed to delete checkpoint: %w", err)
			}

			fmt.Fprintf(out, "%s Deleted checkpoint %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(checkpointID))

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}
