package ui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/review_viewer/pkg/config"
	"github.com/Dicklesworthstone/review_viewer/pkg/loader"
	"github.com/Dicklesworthstone/review_viewer/pkg/model"
	"github.com/Dicklesworthstone/review_viewer/pkg/privacy"
	"github.com/Dicklesworthstone/review_viewer/pkg/review"
)

// ReviewService is the remote surface the table drives
type ReviewService interface {
	loader.Lister
	ReviewWriter
	review.Deleter
}

// Clipboard copies text to the system clipboard
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

type sortColumn int

const (
	sortNone sortColumn = iota
	sortShow
	sortAuthor
	sortRating
	sortReview
	sortColumnCount
)

func (c sortColumn) String() string {
	switch c {
	case sortShow:
		return "show"
	case sortAuthor:
		return "author"
	case sortRating:
		return "rating"
	case sortReview:
		return "review"
	default:
		return "none"
	}
}

// TableOptions configures a TableModel
type TableOptions struct {
	Private           bool
	Token             string
	PageSize          int
	DeleteConcurrency int
	Timeout           time.Duration

	Journal   *review.Journal
	Logger    *zap.Logger
	Clipboard Clipboard

	// OnPrivacyChange mirrors every privacy flip to the caller
	OnPrivacyChange func(private bool)
}

// TableModel is the review browser: a paged, selectable grid with add,
// update, delete and privacy controls.
type TableModel struct {
	svc       ReviewService
	loader    *loader.Loader
	privacy   *privacy.Toggle
	selection review.Selection
	opts      TableOptions
	logger    *zap.Logger
	theme     Theme

	// Grid data
	all    []model.Review // latest fetched collection
	rows   []model.Review // after filter and sort
	cursor int            // index into rows

	// Paging
	paginator   paginator.Model
	pageSizeIdx int

	// Sorting
	sortCol  sortColumn
	sortDesc bool

	// Filtering
	filterInput textinput.Model
	filtering   bool

	// Detail pane
	detail     viewport.Model
	showDetail bool

	help  HelpOverlayModel
	modal *EditModal

	// Status bar
	status      string
	statusIsErr bool
	loading     bool
	deleting    bool

	width  int
	height int
}

// NewTableModel creates the table. Nothing is fetched until Init runs.
func NewTableModel(svc ReviewService, opts TableOptions, theme Theme) *TableModel {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = systemClipboard{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.DeleteConcurrency <= 0 {
		opts.DeleteConcurrency = review.DefaultDeleteConcurrency
	}

	pageSizeIdx := 1
	for i, n := range config.PageSizes {
		if n == opts.PageSize {
			pageSizeIdx = i
		}
	}

	p := paginator.New()
	p.Type = paginator.Arabic
	p.PerPage = config.PageSizes[pageSizeIdx]

	ti := textinput.New()
	ti.Placeholder = "Filter reviews..."
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 40

	m := &TableModel{
		svc:         svc,
		loader:      loader.New(svc, opts.Private, opts.Token),
		privacy:     privacy.New(opts.Private, opts.OnPrivacyChange),
		opts:        opts,
		logger:      opts.Logger,
		theme:       theme,
		all:         []model.Review{},
		rows:        []model.Review{},
		paginator:   p,
		pageSizeIdx: pageSizeIdx,
		filterInput: ti,
		detail:      viewport.New(80, 20),
		help:        NewHelpOverlayModel(theme),
		width:       100,
		height:      30,
	}
	m.rebuildRows()
	return m
}

// Init implements tea.Model
func (m *TableModel) Init() tea.Cmd {
	return m.refresh()
}

// Update implements tea.Model
func (m *TableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case reviewsLoadedMsg:
		return m, m.handleLoaded(msg)
	case deleteDoneMsg:
		return m, m.handleDeleteDone(msg)
	case modalClosedMsg:
		return m, m.handleModalClosed(msg)
	case SelectionChangedMsg:
		m.selection.Replace(msg.IDs)
		return m, nil
	case TokenChangedMsg:
		m.loader.SetToken(msg.Token)
		m.setStatus("Access token reloaded")
		return m, m.refresh()
	case statusMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus(msg.text)
		}
		return m, nil
	}

	// The modal owns input while open
	if m.modal != nil {
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}

	if m.help.IsVisible() {
		m.help, _ = m.help.Update(msg)
		return m, nil
	}

	if m.filtering {
		return m, m.updateFilter(msg)
	}

	if m.showDetail {
		return m, m.updateDetail(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "down", "j":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-1)
	case "right", "l":
		m.paginator.NextPage()
		m.cursor = m.paginator.Page * m.paginator.PerPage
	case "left", "h":
		m.paginator.PrevPage()
		m.cursor = m.paginator.Page * m.paginator.PerPage
	case "home", "g":
		m.setCursor(0)
	case "end", "G":
		m.setCursor(len(m.rows) - 1)
	case "+", "=":
		m.cyclePageSize(1)
	case "-":
		m.cyclePageSize(-1)
	case "s":
		m.sortCol = (m.sortCol + 1) % sortColumnCount
		m.rebuildRows()
	case "S":
		m.sortDesc = !m.sortDesc
		m.rebuildRows()
	case "/":
		m.filtering = true
		return m, m.filterInput.Focus()
	case "esc":
		if m.filterInput.Value() != "" {
			m.filterInput.SetValue("")
			m.rebuildRows()
		}
	case " ":
		if r, ok := m.currentRow(); ok {
			return m, selectionCmd(m.selection.Toggled(r.ID))
		}
	case "ctrl+a":
		ids := make([]string, 0, len(m.rows))
		for _, r := range m.rows {
			ids = append(ids, r.ID)
		}
		return m, selectionCmd(ids)
	case "x":
		return m, selectionCmd(nil)
	case "a":
		return m, m.openModal(IntentAdd)
	case "u":
		return m, m.openModal(IntentUpdate)
	case "d":
		return m, m.startDelete()
	case "p":
		return m, m.togglePrivacy()
	case "r":
		return m, m.refresh()
	case "enter":
		m.openDetail()
	case "y":
		return m, m.copyIDs()
	case "?":
		m.help.Show()
	}
	return m, nil
}

func selectionCmd(ids []string) tea.Cmd {
	return func() tea.Msg { return SelectionChangedMsg{IDs: ids} }
}

// refresh starts a fetch for the current privacy mode and token. Responses
// from earlier fetches are discarded when they arrive.
func (m *TableModel) refresh() tea.Cmd {
	req := m.loader.Begin()
	m.loading = true
	l, timeout := m.loader, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		reviews, err := l.Fetch(ctx, req)
		return reviewsLoadedMsg{req: req, reviews: reviews, err: err}
	}
}

func (m *TableModel) handleLoaded(msg reviewsLoadedMsg) tea.Cmd {
	if !m.loader.Apply(msg.req, msg.reviews, msg.err) {
		m.logger.Debug("dropping stale fetch",
			zap.Uint64("generation", msg.req.Generation),
			zap.Bool("private", msg.req.Private))
		return nil
	}
	m.loading = false
	if msg.err != nil {
		m.logger.Warn("fetch failed", zap.Error(msg.err))
		m.setError(msg.err)
		return nil
	}

	m.all = m.loader.Reviews()
	present := make(map[string]bool, len(m.all))
	for _, r := range m.all {
		present[r.ID] = true
	}
	m.selection.Replace(m.selection.Retain(func(id string) bool { return present[id] }))
	m.rebuildRows()
	m.logger.Debug("reviews loaded", zap.Int("count", len(m.all)), zap.Bool("private", msg.req.Private))
	return nil
}

func (m *TableModel) togglePrivacy() tea.Cmd {
	private := m.privacy.Toggle()
	if !m.loader.SetPrivacy(private) {
		return nil
	}
	m.all = []model.Review{}
	m.rebuildRows()
	m.setStatus("Showing " + m.privacy.String() + " reviews")
	return m.refresh()
}

// timeoutDeleter gives each delete its own deadline
type timeoutDeleter struct {
	review.Deleter
	timeout time.Duration
}

func (d timeoutDeleter) Delete(ctx context.Context, id string, private bool, token string) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.Deleter.Delete(ctx, id, private, token)
}

// startDelete deletes every selected review, waits for all of them to
// settle and then reports back with a single deleteDoneMsg.
func (m *TableModel) startDelete() tea.Cmd {
	if m.deleting {
		return nil
	}
	ids := m.selection.IDs()
	if len(ids) == 0 {
		m.setError(errors.New("select reviews to delete"))
		return nil
	}

	m.deleting = true
	m.setStatus(fmt.Sprintf("Deleting %d review(s)...", len(ids)))

	d := timeoutDeleter{Deleter: m.svc, timeout: m.opts.Timeout}
	private, token, limit := m.privacy.Privacy(), m.loader.Token(), m.opts.DeleteConcurrency
	return func() tea.Msg {
		res := review.DeleteAll(context.Background(), d, ids, private, token, limit)
		return deleteDoneMsg{result: res, private: private}
	}
}

func (m *TableModel) handleDeleteDone(msg deleteDoneMsg) tea.Cmd {
	m.deleting = false
	m.opts.Journal.RecordDeletes(msg.result, msg.private)

	// Only deleted ids leave the selection; failed ones stay for a retry
	deleted := make(map[string]bool, len(msg.result.Deleted))
	for _, id := range msg.result.Deleted {
		deleted[id] = true
	}
	m.selection.Replace(m.selection.Retain(func(id string) bool { return !deleted[id] }))

	if err := msg.result.Err(); err != nil {
		m.logger.Warn("delete failed",
			zap.Int("deleted", len(msg.result.Deleted)),
			zap.Int("failed", len(msg.result.Failed)),
			zap.Error(err))
		m.setError(fmt.Errorf("deleted %d, failed %d: %w", len(msg.result.Deleted), len(msg.result.Failed), err))
	} else {
		m.setStatus(fmt.Sprintf("Deleted %d review(s)", len(msg.result.Deleted)))
	}
	return m.refresh()
}

// openModal shows the edit modal for intent with the current selection,
// privacy mode and token. The grid is hidden until it closes.
func (m *TableModel) openModal(intent EditIntent) tea.Cmd {
	ids := m.selection.IDs()
	if intent == IntentUpdate && len(ids) == 0 {
		m.setError(errors.New("select reviews to update"))
		return nil
	}

	cfg := EditModalConfig{
		IDs:     ids,
		Token:   m.loader.Token(),
		Private: m.privacy.Privacy(),
		Intent:  intent,
		Writer:  m.svc,
		Journal: m.opts.Journal,
		Timeout: m.opts.Timeout,
	}
	if intent == IntentUpdate {
		if r, ok := m.reviewByID(ids[0]); ok {
			cfg.Prefill = r.Input()
		}
	}

	m.modal = NewEditModal(cfg, m.theme)
	m.modal.SetSize(m.width, m.height)
	return m.modal.Init()
}

func (m *TableModel) handleModalClosed(msg modalClosedMsg) tea.Cmd {
	m.modal = nil
	if msg.err != nil {
		m.logger.Warn("save failed", zap.Int("saved", msg.saved), zap.Error(msg.err))
		m.setError(msg.err)
	} else if msg.saved > 0 {
		m.setStatus(fmt.Sprintf("Saved %d review(s)", msg.saved))
	}
	if msg.saved > 0 {
		return m.refresh()
	}
	return nil
}

func (m *TableModel) copyIDs() tea.Cmd {
	ids := m.selection.IDs()
	if len(ids) == 0 {
		if r, ok := m.currentRow(); ok {
			ids = []string{r.ID}
		}
	}
	if len(ids) == 0 {
		return nil
	}
	cb := m.opts.Clipboard
	return func() tea.Msg {
		if err := cb.WriteAll(strings.Join(ids, "\n")); err != nil {
			return statusMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return statusMsg{text: fmt.Sprintf("Copied %d id(s)", len(ids))}
	}
}

func (m *TableModel) updateFilter(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.filtering = false
			m.filterInput.Blur()
			m.filterInput.SetValue("")
			m.rebuildRows()
			return nil
		case "enter":
			m.filtering = false
			m.filterInput.Blur()
			return nil
		}
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.cursor = 0
	m.rebuildRows()
	return cmd
}

// rebuildRows applies the quick filter and sort to the fetched collection
func (m *TableModel) rebuildRows() {
	rows := m.all
	if query := strings.TrimSpace(m.filterInput.Value()); query != "" {
		haystack := make([]string, len(m.all))
		for i, r := range m.all {
			haystack[i] = r.Show + " " + r.Author + " " + r.Review
		}
		matches := fuzzy.Find(query, haystack)
		rows = make([]model.Review, 0, len(matches))
		for _, match := range matches {
			rows = append(rows, m.all[match.Index])
		}
	} else {
		rows = append([]model.Review(nil), m.all...)
	}

	if m.sortCol != sortNone {
		col, desc := m.sortCol, m.sortDesc
		sort.SliceStable(rows, func(i, j int) bool {
			c := compareReviews(rows[i], rows[j], col)
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	m.rows = rows
	m.paginator.PerPage = config.PageSizes[m.pageSizeIdx]
	if len(rows) == 0 {
		m.paginator.TotalPages = 1
	} else {
		m.paginator.SetTotalPages(len(rows))
	}
	m.setCursor(m.cursor)
}

func compareReviews(a, b model.Review, col sortColumn) int {
	switch col {
	case sortShow:
		return strings.Compare(strings.ToLower(a.Show), strings.ToLower(b.Show))
	case sortAuthor:
		return strings.Compare(strings.ToLower(a.Author), strings.ToLower(b.Author))
	case sortRating:
		return a.Rating - b.Rating
	case sortReview:
		return strings.Compare(strings.ToLower(a.Review), strings.ToLower(b.Review))
	}
	return 0
}

func (m *TableModel) cyclePageSize(delta int) {
	n := len(config.PageSizes)
	m.pageSizeIdx = (m.pageSizeIdx + delta + n) % n
	m.rebuildRows()
}

func (m *TableModel) moveCursor(delta int) {
	m.setCursor(m.cursor + delta)
}

// setCursor clamps i into rows and moves to the page containing it
func (m *TableModel) setCursor(i int) {
	if i >= len(m.rows) {
		i = len(m.rows) - 1
	}
	if i < 0 {
		i = 0
	}
	m.cursor = i
	if m.paginator.PerPage > 0 {
		m.paginator.Page = i / m.paginator.PerPage
	}
}

func (m *TableModel) currentRow() (model.Review, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return model.Review{}, false
	}
	return m.rows[m.cursor], true
}

func (m *TableModel) reviewByID(id string) (model.Review, bool) {
	for _, r := range m.all {
		if r.ID == id {
			return r, true
		}
	}
	return model.Review{}, false
}

func (m *TableModel) setStatus(s string) {
	m.status = s
	m.statusIsErr = false
}

func (m *TableModel) setError(err error) {
	m.status = err.Error()
	m.statusIsErr = true
}

// SetSize sets the terminal dimensions
func (m *TableModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.SetSize(width, height)
	m.detail.Width = width - 4
	m.detail.Height = height - 6
	if m.modal != nil {
		m.modal.SetSize(width, height)
	}
}

// PageRows returns the rows shown on the current page
func (m *TableModel) PageRows() []model.Review {
	start, end := m.paginator.GetSliceBounds(len(m.rows))
	return m.rows[start:end]
}

// Rows returns every row after filtering and sorting
func (m *TableModel) Rows() []model.Review {
	return append([]model.Review(nil), m.rows...)
}

// Selection returns the selected ids in selection order
func (m *TableModel) Selection() []string {
	return m.selection.IDs()
}

// ModalOpen reports whether the edit modal is showing, which hides the grid
func (m *TableModel) ModalOpen() bool {
	return m.modal != nil
}

// Modal returns the open edit modal, or nil
func (m *TableModel) Modal() *EditModal {
	return m.modal
}

// Privacy reports whether private reviews are shown
func (m *TableModel) Privacy() bool {
	return m.privacy.Privacy()
}

// Status returns the status bar text and whether it is an error
func (m *TableModel) Status() (string, bool) {
	return m.status, m.statusIsErr
}
