package tui

import (
	"github.com/Veraticus/budgeter/internal/service"
	"github.com/Veraticus/budgeter/internal/tui/themes"
)

// Config holds dashboard configuration.
type Config struct {
	Storage service.Storage
	Theme   themes.Theme
	Width   int
	Height  int
}

// Option is a functional option for configuring the dashboard.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:  themes.Light,
		Width:  100,
		Height: 30,
	}
}

// WithStorage sets the storage service.
func WithStorage(storage service.Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

// WithTheme selects the starting theme by name.
func WithTheme(name string) Option {
	return func(c *Config) {
		c.Theme = themes.GetTheme(name)
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}
