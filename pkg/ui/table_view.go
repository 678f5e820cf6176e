package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/review_viewer/pkg/model"
)

// selection marker plus checkbox, e.g. "▸ [x] "
const rowPrefixWidth = 6

// View implements tea.Model
func (m *TableModel) View() string {
	header := m.renderHeader()
	footer := m.renderStatusBar()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	switch {
	case m.modal != nil:
		// The grid is hidden, not discarded, while the modal is up
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.modal.View())
	case m.help.IsVisible():
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.help.View())
	case m.showDetail:
		body = m.renderDetail()
	default:
		body = m.renderGrid()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *TableModel) renderHeader() string {
	titleStyle := m.theme.Renderer.NewStyle().Bold(true).Foreground(m.theme.Primary)
	subStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext)

	parts := []string{
		titleStyle.Render("Reviews"),
		RenderPrivacyBadge(m.privacy.Privacy(), m.theme),
		subStyle.Render(fmt.Sprintf("%d shown", len(m.rows))),
	}
	if n := m.selection.Len(); n > 0 {
		parts = append(parts, subStyle.Render(fmt.Sprintf("%d selected", n)))
	}
	if m.sortCol != sortNone {
		dir := "↑"
		if m.sortDesc {
			dir = "↓"
		}
		parts = append(parts, subStyle.Render("sort: "+m.sortCol.String()+" "+dir))
	}
	if m.loading {
		parts = append(parts, subStyle.Render("loading..."))
	}

	line := strings.Join(parts, "  ")
	if m.filtering || m.filterInput.Value() != "" {
		line += "\n" + m.filterInput.View()
	}
	return line
}

func (m *TableModel) renderGrid() string {
	var b strings.Builder

	widths := m.columnWidths()
	headStyle := m.theme.Renderer.NewStyle().Bold(true).Foreground(m.theme.Secondary)
	cells := make([]string, len(columnTitles))
	for i, title := range columnTitles {
		cells[i] = fitCell(title, widths[i])
	}
	b.WriteString(headStyle.Render(strings.Repeat(" ", rowPrefixWidth) + strings.Join(cells, " ")))
	b.WriteString("\n")
	b.WriteString(RenderDivider(m.width))
	b.WriteString("\n")

	page := m.PageRows()
	if len(page) == 0 {
		hint := "No reviews yet. Press a to add one."
		switch {
		case m.loading && !m.loader.Loaded():
			hint = "Loading reviews..."
		case m.filterInput.Value() != "":
			hint = "No reviews match the filter."
		}
		b.WriteString(m.theme.Renderer.NewStyle().Faint(true).Italic(true).Render(hint))
		b.WriteString("\n")
	}

	start, _ := m.paginator.GetSliceBounds(len(m.rows))
	for i, r := range page {
		b.WriteString(m.renderRow(r, widths, start+i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderPager())
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	return b.String()
}

// columnWidths distributes the width left after the row prefix and the
// single-space column gaps
func (m *TableModel) columnWidths() []int {
	avail := m.width - rowPrefixWidth - (len(columnWeights) - 1)
	return FlexWidths(avail, columnWeights)
}

func (m *TableModel) renderRow(r model.Review, widths []int, atCursor bool) string {
	marker := "  "
	if atCursor {
		marker = "▸ "
	}
	check := "[ ] "
	if m.selection.Contains(r.ID) {
		check = "[x] "
	}

	rating := model.RatingStars(r.Rating)
	if label := model.RatingLabel(r.Rating); label != "" {
		rating += " " + label
	}

	show := fitCell(r.Show, widths[0])
	author := fitCell(r.Author, widths[1])
	stars := m.theme.Renderer.NewStyle().Foreground(ratingColor(r.Rating)).Render(fitCell(rating, widths[2]))
	text := fitCell(r.Review, widths[3])

	row := marker + check + strings.Join([]string{show, author, stars, text}, " ")
	if atCursor {
		return m.theme.Renderer.NewStyle().Bold(true).Foreground(m.theme.Primary).Render(row)
	}
	return row
}

func (m *TableModel) renderPager() string {
	style := m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext)
	return style.Render(fmt.Sprintf("%s  ·  %d per page",
		m.paginator.View(), m.paginator.PerPage))
}

func (m *TableModel) renderStats() string {
	stats := model.ComputeRatingStats(m.all)
	if stats.Count == 0 {
		return ""
	}
	style := m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext)
	return style.Render(fmt.Sprintf("avg %.1f ± %.1f ", stats.Mean, stats.StdDev)) +
		RenderMiniBar(stats.Mean/float64(model.MaxRating), 10, m.theme)
}

func (m *TableModel) renderStatusBar() string {
	keys := "space select · a add · u update · d delete · p private · / filter · ? help · q quit"
	hintStyle := m.theme.Renderer.NewStyle().Faint(true)
	if m.status == "" {
		return hintStyle.Render(keys)
	}
	fg := m.theme.Success
	if m.statusIsErr {
		fg = m.theme.Danger
	}
	status := m.theme.Renderer.NewStyle().Foreground(fg).Render(m.status)
	return status + "\n" + hintStyle.Render(keys)
}

// openDetail shows the review under the cursor as rendered markdown
func (m *TableModel) openDetail() {
	r, ok := m.currentRow()
	if !ok {
		return
	}
	m.detail.SetContent(renderMarkdown(reviewMarkdown(r), m.detail.Width))
	m.detail.GotoTop()
	m.showDetail = true
}

func (m *TableModel) updateDetail(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "enter", "q":
			m.showDetail = false
			return nil
		}
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return cmd
}

func (m *TableModel) renderDetail() string {
	box := m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(0, 1)
	r, ok := m.currentRow()
	if !ok {
		return box.Render(m.detail.View())
	}
	header := RenderRatingBadge(r.Rating, m.theme) + "  " +
		m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext).Render(r.ID)
	return box.Render(header + "\n" + m.detail.View())
}

func reviewMarkdown(r model.Review) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Show)
	fmt.Fprintf(&b, "*by %s* · %s", r.Author, model.RatingStars(r.Rating))
	if label := model.RatingLabel(r.Rating); label != "" {
		fmt.Fprintf(&b, " **%s**", label)
	}
	b.WriteString("\n\n")
	b.WriteString(r.Review)
	b.WriteString("\n")
	return b.String()
}

// renderMarkdown renders markdown with glamour, falling back to the raw
// text if the renderer cannot be built
func renderMarkdown(markdown string, width int) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimSpace(out)
}
