// Package analyse provides the single-PDF analysis view for the TUI.
package analyse

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/components/input"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/components/status"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/keymap"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/messages"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/styles"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driving"
)

// Input focus positions.
const (
	focusURL = iota
	focusQuery
)

// Messages shown below the inputs.
const (
	warnMissingURL = "Please enter a PDF URL."
	doneFresh      = "Analysis complete!"
	doneCached     = "Results served from cache."
)

// View asks one question about one PDF and shows the answer.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	url       *input.Field
	query     *input.Field
	answer    viewport.Model
	statusbar *status.Bar

	analysis driving.AnalysisService
	ctx      context.Context

	focus    int
	useCache bool
	running  bool
	result   *domain.Answer
	warning  string
	err      error

	width  int
	height int
	ready  bool
}

// NewView creates a new analyse view.
func NewView(s *styles.Styles, km *keymap.KeyMap, analysis driving.AnalysisService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		url:       input.NewField(s, "URL", "https://example.com/document.pdf"),
		query:     input.NewField(s, "Query", domain.DefaultQuery),
		answer:    viewport.New(80, 10),
		statusbar: status.NewBar(s, km),
		analysis:  analysis,
		ctx:       context.Background(),
		useCache:  true,
		width:     80,
		height:    24,
	}
	v.Reset()
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	if v.running {
		return v.statusbar.StartAnalysing(v.statusbar.Message())
	}
	return v.url.Init()
}

// Update handles messages for the analyse view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerCompleted:
		v.handleAnswerCompleted(msg)
		return v, nil
	}

	var cmd tea.Cmd
	v.statusbar, cmd = v.statusbar.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, backToMenu
	}
	// A running analysis completes in the background; input waits for it.
	if v.running {
		return v, nil
	}

	// Results mode: scroll the answer or start over.
	if v.result != nil || v.err != nil {
		if keymap.Matches(msg.String(), v.keymap.NewQuery) {
			return v, v.editInputs()
		}
		var cmd tea.Cmd
		v.answer, cmd = v.answer.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Submit):
		return v, v.submit()
	case keymap.Matches(msg.String(), v.keymap.NextField):
		return v, v.cycleFocus()
	case keymap.Matches(msg.String(), v.keymap.ToggleCache):
		v.useCache = !v.useCache
		v.statusbar.SetUseCache(v.useCache)
		return v, nil
	case msg.Type == tea.KeyEnter:
		if v.focus == focusURL {
			return v, v.cycleFocus()
		}
		return v, v.submit()
	}

	var cmd tea.Cmd
	if v.focus == focusURL {
		v.url, cmd = v.url.Update(msg)
	} else {
		v.query, cmd = v.query.Update(msg)
	}
	return v, cmd
}

func backToMenu() tea.Msg {
	return messages.ViewChanged{View: messages.ViewMenu}
}

func (v *View) cycleFocus() tea.Cmd {
	if v.focus == focusURL {
		v.focus = focusQuery
		v.url.Blur()
		return v.query.Focus()
	}
	v.focus = focusURL
	v.query.Blur()
	return v.url.Focus()
}

// editInputs leaves results mode and keeps the previous inputs for editing.
func (v *View) editInputs() tea.Cmd {
	v.result = nil
	v.err = nil
	v.statusbar.Clear()
	v.focus = focusQuery
	v.url.Blur()
	return v.query.Focus()
}

// submit validates the inputs and starts the analysis.
func (v *View) submit() tea.Cmd {
	source := strings.TrimSpace(v.url.Value())
	if source == "" {
		v.warning = warnMissingURL
		return nil
	}
	query := strings.TrimSpace(v.query.Value())
	if query == "" {
		query = domain.DefaultQuery
	}

	v.warning = ""
	v.running = true
	v.url.Blur()
	v.query.Blur()
	tick := v.statusbar.StartAnalysing("Analysing " + domain.Truncate(source, 40))
	return tea.Batch(tick, v.performAnalysis(source, query, v.useCache))
}

// performAnalysis answers the query and reports the outcome.
func (v *View) performAnalysis(source, query string, useCache bool) tea.Cmd {
	return func() tea.Msg {
		if v.analysis == nil {
			return messages.AnswerCompleted{Err: ErrNoAnalysisService}
		}
		answer, err := v.analysis.AnswerQuery(v.ctx, source, query, useCache)
		return messages.AnswerCompleted{Answer: answer, Err: err}
	}
}

// handleAnswerCompleted shows the answer or the error.
func (v *View) handleAnswerCompleted(msg messages.AnswerCompleted) {
	v.running = false

	if msg.Err != nil {
		v.err = msg.Err
		v.result = nil
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		v.answer.SetContent(v.styles.Error.Render(v.wrap("Error processing PDF: " + msg.Err.Error())))
		return
	}

	v.err = nil
	v.result = msg.Answer
	v.statusbar.SetState(status.StateDone)
	if msg.Answer.FromCache {
		v.statusbar.SetMessage(doneCached)
	} else {
		v.statusbar.SetMessage(doneFresh)
	}
	v.answer.SetContent(v.wrap(msg.Answer.Text))
	v.answer.GotoTop()
}

func (v *View) wrap(text string) string {
	return lipgloss.NewStyle().Width(max(v.width-4, 20)).Render(text)
}

// View renders the analyse view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections, v.styles.Title.Render("Single PDF Analysis"), "")
	sections = append(sections, v.url.View(), v.query.View(), "")

	if v.warning != "" {
		sections = append(sections, v.styles.Warning.Render(v.warning), "")
	}

	switch {
	case v.result != nil:
		sections = append(sections,
			v.styles.Subtitle.Render(fmt.Sprintf("Analysis of %s", domain.Truncate(v.result.Source, 60))),
			v.styles.Answer.Render(v.answer.View()))
	case v.err != nil:
		sections = append(sections, v.answer.View())
	case !v.running:
		sections = append(sections, v.styles.Muted.Render(
			"Enter a PDF URL and a question, then press ctrl+s.\n"+
				"Leave the query empty for a detailed summary."))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.url.SetWidth(width)
	v.query.SetWidth(width)
	v.statusbar.SetWidth(width)
	// Title, two bordered inputs, subtitle, status bar and spacing.
	v.answer.Width = max(width-4, 20)
	v.answer.Height = max(height-14, 3)
}

// Reset returns the view to its initial input state.
func (v *View) Reset() {
	v.url.SetValue(domain.DefaultSourceURL)
	v.query.SetValue("")
	v.focus = focusURL
	v.query.Blur()
	v.url.Focus()
	v.result = nil
	v.err = nil
	v.warning = ""
	v.running = false
	v.statusbar.Clear()
	v.answer.SetContent("")
}

// Result returns the last answer, if any.
func (v *View) Result() *domain.Answer {
	return v.result
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}

// Warning returns the current input warning.
func (v *View) Warning() string {
	return v.warning
}

// Running reports whether an analysis is in progress.
func (v *View) Running() bool {
	return v.running
}

// UseCache reports whether answers may be served from the cache.
func (v *View) UseCache() bool {
	return v.useCache
}

// SetInputs sets the URL and query fields.
func (v *View) SetInputs(source, query string) {
	v.url.SetValue(source)
	v.query.SetValue(query)
}
