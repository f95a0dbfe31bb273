package render

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for one grid skin.
type Theme struct {
	Name string

	Background string
	Surface    string
	Border     string

	Text  string
	Muted string

	Accent        string
	SelectionBg   string
	SelectionText string
	CurrentBg     string
	Danger        string
}

// Styles returns pre-built lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			Background(lipgloss.Color(t.Surface)).
			Bold(true).
			Padding(0, 1),

		Cell: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		SelectedRow: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),

		CurrentRow: lipgloss.NewStyle().
			Background(lipgloss.Color(t.CurrentBg)).
			Foreground(lipgloss.Color(t.Text)),

		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Padding(0, 1),

		ButtonCurrent: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Accent)).
			Foreground(lipgloss.Color(t.Background)).
			Bold(true).
			Padding(0, 1),

		ButtonDisabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Border: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Border)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),
	}
}

// Styles contains the pre-built lipgloss styles for a theme.
type Styles struct {
	Header    lipgloss.Style
	Cell      lipgloss.Style
	MutedText lipgloss.Style

	SelectedRow lipgloss.Style
	CurrentRow  lipgloss.Style

	Button         lipgloss.Style
	ButtonCurrent  lipgloss.Style
	ButtonDisabled lipgloss.Style

	Border     lipgloss.Style
	DangerText lipgloss.Style
}

var themes = map[string]Theme{
	"default": defaultTheme(),
	"light":   lightTheme(),
	"dark":    darkTheme(),
}

// GetTheme returns a theme by name, falling back to the default skin.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return defaultTheme()
}

func defaultTheme() Theme {
	return Theme{
		Name:          "default",
		Background:    "#1e2030",
		Surface:       "#2a2d3f",
		Border:        "#45475a",
		Text:          "#cdd6f4",
		Muted:         "#7f849c",
		Accent:        "#89b4fa",
		SelectionBg:   "#45475a",
		SelectionText: "#f5e0dc",
		CurrentBg:     "#313244",
		Danger:        "#f38ba8",
	}
}

func lightTheme() Theme {
	return Theme{
		Name:          "light",
		Background:    "#fafafa",
		Surface:       "#e8e8ef",
		Border:        "#c5c5ce",
		Text:          "#2a2a33",
		Muted:         "#8e8ea0",
		Accent:        "#1f66d0",
		SelectionBg:   "#cfe0fa",
		SelectionText: "#11253f",
		CurrentBg:     "#e4ecf9",
		Danger:        "#c0223e",
	}
}

func darkTheme() Theme {
	return Theme{
		Name:          "dark",
		Background:    "#101014",
		Surface:       "#1b1b22",
		Border:        "#33333f",
		Text:          "#d8d8e0",
		Muted:         "#6d6d7e",
		Accent:        "#6ea0f0",
		SelectionBg:   "#2c3a55",
		SelectionText: "#e8f0ff",
		CurrentBg:     "#22222c",
		Danger:        "#e05f76",
	}
}
