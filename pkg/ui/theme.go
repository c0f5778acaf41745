package ui

import "github.com/charmbracelet/lipgloss"

// Theme bundles the colors and base styles every view renders with.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	Base lipgloss.Style
}

// DefaultTheme returns the standard palette bound to r.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#1E7F4F", Dark: "#50FA7B"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"},
		Muted:     lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6272A4"},
		Border:    lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#44475A"},
		Danger:    lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF5555"},
		Highlight: lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"},
	}
	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"})
	return t
}
