package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/budgeter/internal/cli"
	"github.com/Veraticus/budgeter/internal/common"
	"github.com/Veraticus/budgeter/internal/config"
)

var (
	cfgFile   string
	version   = "dev"
	appConfig config.Config
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "budgeter",
		Short: "💰 Personal budget tracker",
		Long: `budgeter keeps a monthly budget in a single SQLite file: income, savings
and cash on hand, a list of categorized expenses, and a summary of what is
left to spend.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/budgeter/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "budget database file (default: $HOME/.local/share/budgeter/budget.db)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	// Bind flags to viper
	_ = viper.BindPFlag(config.KeyDatabasePath, rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(budgetCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(expensesCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(importOFXCmd())
	rootCmd.AddCommand(checkpointCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		if hint := common.Describe(err); hint != "" {
			fmt.Fprintln(os.Stderr, cli.FormatInfo(hint))
		}
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	// A .env file in the working directory is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(config.DefaultConfigDir())
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// BUDGETER_DATABASE_PATH, BUDGETER_IMPORT_STRICT_DATES, ...
	viper.SetEnvPrefix("BUDGETER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	appConfig = cfg

	if err := setupLogging(cfg); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func setupLogging(cfg config.Config) error {
	level, err := common.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	return common.SetupLogger(os.Stderr, level, cfg.LogFormat)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "budgeter version %s\n", version)
		},
	}
}
