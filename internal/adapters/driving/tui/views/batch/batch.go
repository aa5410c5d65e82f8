// Package batch provides the multi-PDF analysis view for the TUI.
package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/components/input"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/components/list"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/components/status"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/keymap"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/messages"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/styles"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driving"
)

// ErrNoAnalysisService indicates that no analysis service was provided.
var ErrNoAnalysisService = errors.New("analysis service is required")

const warnNoSources = "Please enter at least one PDF URL."

// Input focus positions.
const (
	focusSources = iota
	focusQuery
)

// View answers one query against a list of PDFs.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	sources   textarea.Model
	query     *input.Field
	results   *list.BatchList
	statusbar *status.Bar

	analysis driving.AnalysisService
	ctx      context.Context

	focus   int
	running bool
	done    bool
	warning string
	err     error

	width  int
	height int
	ready  bool
}

// NewView creates a new batch view.
func NewView(s *styles.Styles, km *keymap.KeyMap, analysis driving.AnalysisService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	ta := textarea.New()
	ta.Placeholder = "One PDF URL per line"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(6)

	v := &View{
		styles:    s,
		keymap:    km,
		sources:   ta,
		query:     input.NewField(s, "Query", domain.DefaultQuery),
		results:   list.NewBatchList(s),
		statusbar: status.NewBar(s, km),
		analysis:  analysis,
		ctx:       context.Background(),
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
	return textarea.Blink
}

// Update handles messages for the batch view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.BatchCompleted:
		v.handleBatchCompleted(msg)
		return v, nil
	}

	var cmd tea.Cmd
	v.statusbar, cmd = v.statusbar.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	if v.running {
		return v, nil
	}

	if v.done {
		if keymap.Matches(msg.String(), v.keymap.NewQuery) {
			return v, v.editInputs()
		}
		var cmd tea.Cmd
		v.results, cmd = v.results.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Submit):
		return v, v.submit()
	case keymap.Matches(msg.String(), v.keymap.NextField):
		return v, v.cycleFocus()
	case msg.Type == tea.KeyEnter && v.focus == focusQuery:
		return v, v.submit()
	}

	var cmd tea.Cmd
	if v.focus == focusSources {
		v.sources, cmd = v.sources.Update(msg)
	} else {
		v.query, cmd = v.query.Update(msg)
	}
	return v, cmd
}

func (v *View) cycleFocus() tea.Cmd {
	if v.focus == focusSources {
		v.focus = focusQuery
		v.sources.Blur()
		return v.query.Focus()
	}
	v.focus = focusSources
	v.query.Blur()
	return v.sources.Focus()
}

func (v *View) editInputs() tea.Cmd {
	v.done = false
	v.err = nil
	v.results.SetItems(nil)
	v.statusbar.Clear()
	v.focus = focusSources
	v.query.Blur()
	return v.sources.Focus()
}

// submit parses the URL list and starts the batch.
func (v *View) submit() tea.Cmd {
	sources := domain.ParseSourceList(v.sources.Value())
	if len(sources) == 0 {
		v.warning = warnNoSources
		return nil
	}
	query := strings.TrimSpace(v.query.Value())
	if query == "" {
		query = domain.DefaultQuery
	}

	v.warning = ""
	v.running = true
	v.sources.Blur()
	v.query.Blur()
	tick := v.statusbar.StartAnalysing(fmt.Sprintf("Analysing %d PDFs", len(sources)))
	return tea.Batch(tick, v.performBatch(sources, query))
}

func (v *View) performBatch(sources []string, query string) tea.Cmd {
	return func() tea.Msg {
		if v.analysis == nil {
			return messages.BatchCompleted{Err: ErrNoAnalysisService}
		}
		items, err := v.analysis.BatchAnswerQueries(v.ctx, sources, query)
		return messages.BatchCompleted{Items: items, Err: err}
	}
}

func (v *View) handleBatchCompleted(msg messages.BatchCompleted) {
	v.running = false
	v.done = true

	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.results.SetItems(msg.Items)
	v.statusbar.SetState(status.StateDone)
	if failed := domain.CountFailures(msg.Items); failed > 0 {
		v.statusbar.SetMessage(fmt.Sprintf("Completed analysis of %d PDFs, %d failed", len(msg.Items), failed))
	} else {
		v.statusbar.SetMessage(fmt.Sprintf("Completed analysis of %d PDFs", len(msg.Items)))
	}
}

// View renders the batch view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("Batch PDF Analysis"), ""}

	if v.done {
		if v.err != nil {
			sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
		} else {
			sections = append(sections, v.results.View())
		}
		sections = append(sections, "", v.statusbar.View())
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	label := v.styles.Label.Render("URLs")
	box := v.styles.InputField
	if v.focus == focusSources {
		box = v.styles.FocusedField
	}
	sections = append(sections, label, box.Render(v.sources.View()), v.query.View(), "")

	if v.warning != "" {
		sections = append(sections, v.styles.Warning.Render(v.warning), "")
	}
	if !v.running {
		sections = append(sections, v.styles.Muted.Render(
			"Enter PDF URLs one per line, then press ctrl+s.\n"+
				"Every PDF is answered in order; failures do not stop the batch."))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.sources.SetWidth(max(width-6, 20))
	v.query.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.results.SetDimensions(width, max(height-6, 5))
}

// Reset clears inputs and results.
func (v *View) Reset() {
	v.sources.SetValue(domain.DefaultSourceURL)
	v.query.SetValue("")
	v.focus = focusSources
	v.query.Blur()
	v.sources.Focus()
	v.results.SetItems(nil)
	v.statusbar.Clear()
	v.running = false
	v.done = false
	v.warning = ""
	v.err = nil
}

// SetInputs sets the URL list and the query.
func (v *View) SetInputs(sources, query string) {
	v.sources.SetValue(sources)
	v.query.SetValue(query)
}

// Items returns the results of the last batch.
func (v *View) Items() []domain.BatchItem {
	return v.results.Items()
}

// Err returns the error of the last batch, if any.
func (v *View) Err() error {
	return v.err
}

// Warning returns the current input warning.
func (v *View) Warning() string {
	return v.warning
}

// Running reports whether a batch is in progress.
func (v *View) Running() bool {
	return v.running
}

// Done reports whether results are shown.
func (v *View) Done() bool {
	return v.done
}
