package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Column weights for Show, Author, Rating and Review
var columnWeights = []int{4, 4, 5, 20}

var columnTitles = []string{"Show", "Author", "Rating", "Review"}

// FlexWidths splits total cells across columns in proportion to weights.
// Rounding leftovers go to the leftmost columns. When total allows, every
// column gets at least one cell.
func FlexWidths(total int, weights []int) []int {
	widths := make([]int, len(weights))
	if total <= 0 || len(weights) == 0 {
		return widths
	}

	sum := 0
	for _, w := range weights {
		if w > 0 {
			sum += w
		}
	}
	if sum == 0 {
		return widths
	}

	used := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		widths[i] = total * w / sum
		used += widths[i]
	}
	for i := 0; used < total; i = (i + 1) % len(widths) {
		if weights[i] <= 0 {
			continue
		}
		widths[i]++
		used++
	}

	if total < len(widths) {
		return widths
	}
	// Borrow from the widest column so no column collapses to zero
	for i := range widths {
		if widths[i] > 0 || weights[i] <= 0 {
			continue
		}
		widest := 0
		for j := range widths {
			if widths[j] > widths[widest] {
				widest = j
			}
		}
		if widths[widest] <= 1 {
			break
		}
		widths[widest]--
		widths[i] = 1
	}
	return widths
}

// fitCell truncates s to width display cells (with an ellipsis) and pads it
func fitCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}
