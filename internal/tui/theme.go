// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/taibuivan/mangatrack/internal/library"
)

// Theme defines the colors of the UI.
type Theme struct {
	Name string

	Surface     string
	Text        string
	Muted       string
	Accent      string
	Success     string
	Warning     string
	Danger      string
	SelectionBg string

	StatusColors map[library.Status]string
}

// Styles contains pre-built lipgloss styles for a theme.
type Styles struct {
	Header      lipgloss.Style
	Footer      lipgloss.Style
	Title       lipgloss.Style
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	Box         lipgloss.Style

	statusColors map[library.Status]string
	muted        string
	surface      string
}

// Styles returns lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),

		Text:       lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		AccentText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),

		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		WarningText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		statusColors: t.StatusColors,
		muted:        t.Muted,
		surface:      t.Surface,
	}
}

// StatusBadge renders status with its theme color.
func (s Styles) StatusBadge(status library.Status) string {
	color := s.statusColors[status]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.surface)).
		Background(lipgloss.Color(color)).
		Padding(0, 1).
		Render(string(status))
}

// Table returns table styles matching the theme.
func (t Theme) Table() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(t.Muted)).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color(t.Text)).
		Background(lipgloss.Color(t.SelectionBg)).
		Bold(false)
	return styles
}

// # Theme Definitions

var themes = map[string]Theme{
	"default": defaultTheme(),
	"dracula": draculaTheme(),
}

var themeOrder = []string{"default", "dracula"}

// GetTheme returns a theme by name, or the default theme.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return defaultTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func defaultTheme() Theme {
	return Theme{
		Name:        "default",
		Surface:     "#1f2430",
		Text:        "#e6e6e6",
		Muted:       "#8a8f98",
		Accent:      "#5fafff",
		Success:     "#87d787",
		Warning:     "#ffd75f",
		Danger:      "#ff5f5f",
		SelectionBg: "#3a4150",
		StatusColors: map[library.Status]string{
			library.StatusReading:   "#5fafff",
			library.StatusCompleted: "#87d787",
			library.StatusOnHold:    "#ffd75f",
			library.StatusDropped:   "#ff5f5f",
		},
	}
}

func draculaTheme() Theme {
	return Theme{
		Name:        "dracula",
		Surface:     "#282a36",
		Text:        "#f8f8f2",
		Muted:       "#6272a4",
		Accent:      "#bd93f9",
		Success:     "#50fa7b",
		Warning:     "#f1fa8c",
		Danger:      "#ff5555",
		SelectionBg: "#44475a",
		StatusColors: map[library.Status]string{
			library.StatusReading:   "#8be9fd",
			library.StatusCompleted: "#50fa7b",
			library.StatusOnHold:    "#f1fa8c",
			library.StatusDropped:   "#ff5555",
		},
	}
}
