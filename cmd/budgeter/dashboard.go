package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budgeter/internal/common"
	"github.com/Veraticus/budgeter/internal/config"
	"github.com/Veraticus/budgeter/internal/tui"
)

func dashboardCmd() *cobra.Command {
	var theme string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive budget dashboard",
		Long: `Open a full-screen view of the budget: summary, alerts, expenses and
spending per category.

Keys: up/down to move, d to delete the selected expense, r to refresh,
t to switch themes, ? for help, q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("theme") {
				theme = appConfig.Theme
			}
			if theme != config.ThemeLight && theme != config.ThemeDark {
				return fmt.Errorf("%w: --theme must be %q or %q, got %q",
					common.ErrInvalidInput, config.ThemeLight, config.ThemeDark, theme)
			}

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}

			return tui.Run(cmd.Context(),
				tui.WithStorage(store),
				tui.WithTheme(theme))
		},
	}

	cmd.Flags().StringVar(&theme, "theme", config.ThemeLight, "color theme (light, dark)")

	return cmd
}
