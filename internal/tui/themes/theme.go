// Package themes holds the dashboard color schemes.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme names.
const (
	NameLight = "light"
	NameDark  = "dark"
)

// Theme defines the visual style for the dashboard.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Normal      lipgloss.Style
	Label       lipgloss.Style
	Negative    lipgloss.Style
	Alert       lipgloss.Style
	Status      lipgloss.Style
	RoundedBox  lipgloss.Style
	Selected    lipgloss.Style
	TableHeader lipgloss.Style
	Name        string
	Primary     lipgloss.Color
	Muted       lipgloss.Color
	Border      lipgloss.Color
	Foreground  lipgloss.Color
	Background  lipgloss.Color
	Error       lipgloss.Color
	Warning     lipgloss.Color
	Success     lipgloss.Color
}

type palette struct {
	primary, muted, border, foreground, background string
	errorColor, warning, success, selectedText     string
}

func build(name string, p palette) Theme {
	t := Theme{
		Name:       name,
		Primary:    lipgloss.Color(p.primary),
		Muted:      lipgloss.Color(p.muted),
		Border:     lipgloss.Color(p.border),
		Foreground: lipgloss.Color(p.foreground),
		Background: lipgloss.Color(p.background),
		Error:      lipgloss.Color(p.errorColor),
		Warning:    lipgloss.Color(p.warning),
		Success:    lipgloss.Color(p.success),
	}

	t.Title = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	t.Subtitle = lipgloss.NewStyle().Foreground(t.Muted)
	t.Normal = lipgloss.NewStyle().Foreground(t.Foreground)
	t.Label = lipgloss.NewStyle().Foreground(t.Muted).Width(18)
	t.Negative = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	t.Alert = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	t.Status = lipgloss.NewStyle().Foreground(t.Muted).Italic(true)
	t.RoundedBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	t.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.selectedText)).
		Background(t.Primary).
		Bold(true)
	t.TableHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(t.Border)

	return t
}

// Light suits terminals with a light background.
var Light = build(NameLight, palette{
	primary:      "#1d4ed8",
	muted:        "#6b7280",
	border:       "#d1d5db",
	foreground:   "#111827",
	background:   "#ffffff",
	errorColor:   "#b91c1c",
	warning:      "#b45309",
	success:      "#047857",
	selectedText: "#ffffff",
})

// Dark suits terminals with a dark background.
var Dark = build(NameDark, palette{
	primary:      "#89b4fa",
	muted:        "#6c7086",
	border:       "#45475a",
	foreground:   "#cdd6f4",
	background:   "#1e1e2e",
	errorColor:   "#f38ba8",
	warning:      "#f9e2af",
	success:      "#a6e3a1",
	selectedText: "#1e1e2e",
})

// GetTheme returns a theme by name, falling back to Light.
func GetTheme(name string) Theme {
	if name == NameDark {
		return Dark
	}
	return Light
}

// Toggle returns the other theme.
func Toggle(t Theme) Theme {
	if t.Name == NameDark {
		return Light
	}
	return Dark
}
