package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme carries the renderer and the semantic colors used across views
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Danger  lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor
}

// DefaultTheme returns the Dracula-based theme bound to r. A nil renderer
// falls back to the default lipgloss renderer.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: string(ColorPrimary)},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: string(ColorSecondary)},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: string(ColorSubtext)},
		Border:    lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: string(ColorBgHighlight)},
		Highlight: lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: string(ColorBgHighlight)},
		Success:   lipgloss.AdaptiveColor{Light: "#00A800", Dark: string(ColorSuccess)},
		Warning:   lipgloss.AdaptiveColor{Light: "#C46A00", Dark: string(ColorWarning)},
		Danger:    lipgloss.AdaptiveColor{Light: "#CC0000", Dark: string(ColorDanger)},
		Info:      lipgloss.AdaptiveColor{Light: "#0077AA", Dark: string(ColorInfo)},
	}
}
