package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/review_viewer/pkg/model"
	"github.com/Dicklesworthstone/review_viewer/pkg/review"
)

// EditIntent says what the edit modal was opened for
type EditIntent int

const (
	// IntentAdd creates one new review
	IntentAdd EditIntent = iota
	// IntentUpdate writes the form to every selected review
	IntentUpdate
)

func (i EditIntent) String() string {
	if i == IntentUpdate {
		return "update"
	}
	return "add"
}

// ReviewWriter performs the modal's create and update calls
type ReviewWriter interface {
	Create(ctx context.Context, in model.ReviewInput, private bool, token string) (model.Review, error)
	Update(ctx context.Context, id string, in model.ReviewInput, private bool, token string) (model.Review, error)
}

// EditModalConfig is what the modal is opened with
type EditModalConfig struct {
	IDs     []string
	Token   string
	Private bool
	Intent  EditIntent
	Prefill model.ReviewInput // initial form values for IntentUpdate

	Writer  ReviewWriter
	Journal *review.Journal
	Timeout time.Duration

	// OnClose builds the message sent when the modal finishes. saved counts
	// the reviews written.
	OnClose func(saved int, err error) tea.Msg
}

// EditModal is the add/update review form
type EditModal struct {
	cfg    EditModalConfig
	form   *huh.Form
	values *model.ReviewInput
	theme  Theme
	width  int
	height int
	saving bool
}

// NewEditModal builds the form for cfg.Intent
func NewEditModal(cfg EditModalConfig, theme Theme) *EditModal {
	if cfg.OnClose == nil {
		cfg.OnClose = func(saved int, err error) tea.Msg {
			return modalClosedMsg{saved: saved, err: err}
		}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	values := &model.ReviewInput{}
	if cfg.Intent == IntentUpdate {
		*values = cfg.Prefill
		// the rating select only offers 0..5
		values.Rating = model.ClampRating(values.Rating)
	}

	m := &EditModal{cfg: cfg, values: values, theme: theme}
	m.form = m.buildForm()
	return m
}

func (m *EditModal) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("show").
				Title("Show").
				Value(&m.values.Show).
				Validate(func(s string) error {
					return model.ReviewInput{Show: s}.ValidateField("Show")
				}),
			huh.NewInput().
				Key("author").
				Title("Author").
				Value(&m.values.Author).
				Validate(func(s string) error {
					return model.ReviewInput{Author: s}.ValidateField("Author")
				}),
			huh.NewSelect[int]().
				Key("rating").
				Title("Rating").
				Options(ratingOptions()...).
				Value(&m.values.Rating),
			huh.NewText().
				Key("review").
				Title("Review").
				Lines(5).
				CharLimit(5000).
				Value(&m.values.Review).
				Validate(func(s string) error {
					return model.ReviewInput{Review: s}.ValidateField("Review")
				}),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(true)
}

func ratingOptions() []huh.Option[int] {
	opts := make([]huh.Option[int], 0, model.MaxRating+1)
	for r := model.MinRating; r <= model.MaxRating; r++ {
		opts = append(opts, huh.NewOption(model.RatingStars(r)+" "+model.RatingLabel(r), r))
	}
	return opts
}

// Init implements tea.Model
func (m *EditModal) Init() tea.Cmd {
	return m.form.Init()
}

// Update forwards input to the form. Completion starts the save; esc or
// abort closes without saving.
func (m *EditModal) Update(msg tea.Msg) (*EditModal, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return m, m.close(0, nil)
	}

	next, cmd := m.form.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.saving = true
		return m, m.save(m.values.Normalized())
	case huh.StateAborted:
		return m, m.close(0, nil)
	}
	return m, cmd
}

func (m *EditModal) close(saved int, err error) tea.Cmd {
	onClose := m.cfg.OnClose
	return func() tea.Msg { return onClose(saved, err) }
}

func (m *EditModal) save(in model.ReviewInput) tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		saved, err := saveReviews(context.Background(), cfg, in)
		return cfg.OnClose(saved, err)
	}
}

// saveReviews writes in according to cfg.Intent and journals each call. An
// update is attempted for every id even when some fail.
func saveReviews(ctx context.Context, cfg EditModalConfig, in model.ReviewInput) (int, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	if cfg.Writer == nil {
		return 0, errors.New("no review service configured")
	}

	if cfg.Intent == IntentAdd {
		cctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		created, err := cfg.Writer.Create(cctx, in, cfg.Private, cfg.Token)
		cancel()
		cfg.Journal.Record(model.ActionCreate, created.ID, cfg.Private, err)
		if err != nil {
			return 0, err
		}
		return 1, nil
	}

	if len(cfg.IDs) == 0 {
		return 0, errors.New("no reviews selected")
	}
	saved := 0
	var errs []error
	for _, id := range cfg.IDs {
		cctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		_, err := cfg.Writer.Update(cctx, id, in, cfg.Private, cfg.Token)
		cancel()
		cfg.Journal.Record(model.ActionUpdate, id, cfg.Private, err)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		saved++
	}
	return saved, errors.Join(errs...)
}

// Title is the modal heading
func (m *EditModal) Title() string {
	if m.cfg.Intent == IntentAdd {
		return "Add Review"
	}
	if len(m.cfg.IDs) == 1 {
		return "Update Review " + m.cfg.IDs[0]
	}
	return fmt.Sprintf("Update %d Reviews", len(m.cfg.IDs))
}

// Intent returns what the modal was opened for
func (m *EditModal) Intent() EditIntent {
	return m.cfg.Intent
}

// IDs returns the selection the modal was opened with
func (m *EditModal) IDs() []string {
	return append([]string(nil), m.cfg.IDs...)
}

// Values returns the current form values
func (m *EditModal) Values() model.ReviewInput {
	return *m.values
}

// SetSize sets the modal dimensions
func (m *EditModal) SetSize(width, height int) {
	m.width = width
	m.height = height
	formWidth := width - 16
	if formWidth > 72 {
		formWidth = 72
	}
	if formWidth < 30 {
		formWidth = 30
	}
	m.form = m.form.WithWidth(formWidth)
}

// View implements tea.Model
func (m *EditModal) View() string {
	var b strings.Builder

	titleStyle := m.theme.Renderer.NewStyle().
		Bold(true).
		Foreground(m.theme.Primary)
	b.WriteString(titleStyle.Render(m.Title()))
	b.WriteString("  ")
	b.WriteString(RenderPrivacyBadge(m.cfg.Private, m.theme))
	b.WriteString("\n\n")

	if m.saving {
		b.WriteString(m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext).Render("Saving..."))
	} else {
		b.WriteString(m.form.View())
		b.WriteString("\n")
		hintStyle := m.theme.Renderer.NewStyle().Faint(true)
		b.WriteString(hintStyle.Render("[Enter] Next/Submit  [Esc] Cancel"))
	}

	boxStyle := m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(1, 2)

	return boxStyle.Render(b.String())
}
