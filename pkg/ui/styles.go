package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/review_viewer/pkg/model"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired with semantic colors
// ══════════════════════════════════════════════════════════════════════════════

var (
	// Base colors
	ColorBgHighlight = lipgloss.Color("#44475A")
	ColorSubtext     = lipgloss.Color("#BFBFBF")
	ColorMuted       = lipgloss.Color("#6272A4")

	// Accent colors
	ColorPrimary   = lipgloss.Color("#BD93F9")
	ColorSecondary = lipgloss.Color("#6272A4")
	ColorInfo      = lipgloss.Color("#8BE9FD")
	ColorSuccess   = lipgloss.Color("#50FA7B")
	ColorWarning   = lipgloss.Color("#FFB86C")
	ColorDanger    = lipgloss.Color("#FF5555")

	// Rating colors, worst to best
	ColorRatingLow  = lipgloss.Color("#FF5555")
	ColorRatingMid  = lipgloss.Color("#F1FA8C")
	ColorRatingHigh = lipgloss.Color("#50FA7B")
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGE RENDERING
// ══════════════════════════════════════════════════════════════════════════════

// ratingColor picks the star color for a rating
func ratingColor(rating int) lipgloss.Color {
	switch {
	case !model.IsValidRating(rating):
		return ColorMuted
	case rating <= 1:
		return ColorRatingLow
	case rating <= 3:
		return ColorRatingMid
	default:
		return ColorRatingHigh
	}
}

// RenderRatingBadge renders the star strip followed by the rating label
func RenderRatingBadge(rating int, t Theme) string {
	stars := t.Renderer.NewStyle().
		Foreground(ratingColor(rating)).
		Render(model.RatingStars(rating))
	label := model.RatingLabel(rating)
	if label == "" {
		return stars
	}
	return stars + " " + t.Renderer.NewStyle().Foreground(t.Subtext).Render(label)
}

// RenderPrivacyBadge renders the current visibility mode
func RenderPrivacyBadge(private bool, t Theme) string {
	fg, label := t.Success, "PUBLIC"
	if private {
		fg, label = t.Warning, "PRIVATE"
	}
	return t.Renderer.NewStyle().
		Foreground(fg).
		Bold(true).
		Render(label)
}

// ══════════════════════════════════════════════════════════════════════════════
// METRIC VISUALIZATION
// ══════════════════════════════════════════════════════════════════════════════

// RenderMiniBar renders a mini horizontal bar for a value between 0 and 1
func RenderMiniBar(value float64, width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}

	var barColor lipgloss.AdaptiveColor
	if value >= 0.75 {
		barColor = t.Success
	} else if value >= 0.5 {
		barColor = t.Warning
	} else if value >= 0.25 {
		barColor = t.Info
	} else {
		barColor = t.Secondary
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return t.Renderer.NewStyle().Foreground(barColor).Render(bar)
}

// ══════════════════════════════════════════════════════════════════════════════
// DIVIDERS AND SEPARATORS
// ══════════════════════════════════════════════════════════════════════════════

// RenderDivider renders a horizontal divider line
func RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(ColorBgHighlight).
		Render(strings.Repeat("─", width))
}
