// Package theme provides color definitions for the dashboard TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines all colors used in the dashboard UI.
type Theme struct {
	Background lipgloss.Color
	Accent     lipgloss.Color
	AccentFg   lipgloss.Color // Foreground for text on Accent background
	Border     lipgloss.Color
	MutedFg    lipgloss.Color
	TextFg     lipgloss.Color
	SuccessFg  lipgloss.Color
	WarnFg     lipgloss.Color
	ErrorFg    lipgloss.Color
	Cyan       lipgloss.Color
}

// Theme names.
const (
	DraculaName    = "dracula"
	CleanLightName = "clean-light"
)

// Dracula returns the default dark theme.
func Dracula() *Theme {
	return &Theme{
		Background: lipgloss.Color("#282A36"),
		Accent:     lipgloss.Color("#BD93F9"),
		AccentFg:   lipgloss.Color("#282A36"),
		Border:     lipgloss.Color("#6272A4"),
		MutedFg:    lipgloss.Color("#6272A4"),
		TextFg:     lipgloss.Color("#F8F8F2"),
		SuccessFg:  lipgloss.Color("#50FA7B"),
		WarnFg:     lipgloss.Color("#FFB86C"),
		ErrorFg:    lipgloss.Color("#FF5555"),
		Cyan:       lipgloss.Color("#8BE9FD"),
	}
}

// CleanLight returns a light theme for bright terminals.
func CleanLight() *Theme {
	return &Theme{
		Background: lipgloss.Color("#FFFFFF"),
		Accent:     lipgloss.Color("#0969DA"),
		AccentFg:   lipgloss.Color("#FFFFFF"),
		Border:     lipgloss.Color("#D0D7DE"),
		MutedFg:    lipgloss.Color("#6E7781"),
		TextFg:     lipgloss.Color("#24292F"),
		SuccessFg:  lipgloss.Color("#059669"),
		WarnFg:     lipgloss.Color("#D97706"),
		ErrorFg:    lipgloss.Color("#DC2626"),
		Cyan:       lipgloss.Color("#0891B2"),
	}
}

// ByName resolves a theme name, defaulting to Dracula for unknown names.
func ByName(name string) *Theme {
	switch name {
	case CleanLightName:
		return CleanLight()
	default:
		return Dracula()
	}
}
