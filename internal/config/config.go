package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/budgeter/internal/common"
	"github.com/Veraticus/budgeter/internal/model"
)

// Viper keys.
const (
	KeyDatabasePath       = "database.path"
	KeyCategoryDefaults   = "categories.defaults"
	KeyContinueOnError    = "import.continue_on_error"
	KeyStrictDates        = "import.strict_dates"
	KeyAutoCheckpoint     = "import.auto_checkpoint"
	KeyOFXCategory        = "import.ofx_category"
	KeyDashboardTheme     = "dashboard.theme"
	KeySummaryAfterChange = "summary.after_change"
	KeyLogLevel           = "logging.level"
	KeyLogFormat          = "logging.format"
)

// Dashboard themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Config is the resolved configuration.
type Config struct {
	DatabasePath       string
	Theme              string
	OFXCategory        string
	LogLevel           string
	LogFormat          string
	DefaultCategories  []string
	Import             model.ImportOptions
	AutoCheckpoint     bool
	SummaryAfterChange bool
}

// SetDefaults registers the default for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath())
	v.SetDefault(KeyCategoryDefaults, model.DefaultCategories)
	v.SetDefault(KeyContinueOnError, false)
	v.SetDefault(KeyStrictDates, false)
	v.SetDefault(KeyAutoCheckpoint, true)
	v.SetDefault(KeyOFXCategory, "Imported")
	v.SetDefault(KeyDashboardTheme, ThemeLight)
	v.SetDefault(KeySummaryAfterChange, true)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// Load resolves a Config from v, which should already have its config file,
// environment and flags bound.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	cfg := Config{
		DatabasePath:       ExpandPath(strings.TrimSpace(v.GetString(KeyDatabasePath))),
		DefaultCategories:  v.GetStringSlice(KeyCategoryDefaults),
		AutoCheckpoint:     v.GetBool(KeyAutoCheckpoint),
		OFXCategory:        strings.TrimSpace(v.GetString(KeyOFXCategory)),
		Theme:              strings.ToLower(strings.TrimSpace(v.GetString(KeyDashboardTheme))),
		SummaryAfterChange: v.GetBool(KeySummaryAfterChange),
		LogLevel:           v.GetString(KeyLogLevel),
		LogFormat:          v.GetString(KeyLogFormat),
		Import: model.ImportOptions{
			ContinueOnError: v.GetBool(KeyContinueOnError),
			StrictDates:     v.GetBool(KeyStrictDates),
		},
	}

	if cfg.DatabasePath == "" {
		return Config{}, fmt.Errorf("%w: %s cannot be empty", common.ErrInvalidInput, KeyDatabasePath)
	}

	switch cfg.Theme {
	case ThemeLight, ThemeDark:
	default:
		return Config{}, fmt.Errorf("%w: %s must be %q or %q, got %q",
			common.ErrInvalidInput, KeyDashboardTheme, ThemeLight, ThemeDark, cfg.Theme)
	}

	if cfg.OFXCategory == "" {
		cfg.OFXCategory = "Imported"
	}

	return cfg, nil
}
