// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/keymap"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateAnalysing State = "analysing"
	StateError     State = "error"
	StateDone      State = "done"
)

// Bar displays application status and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	spinner  spinner.Model
	state    State
	message  string
	useCache bool
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Title

	return &Bar{
		styles:   s,
		keymap:   km,
		spinner:  sp,
		state:    StateReady,
		useCache: true,
		width:    80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update advances the spinner while analysing.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok || s.state != StateAnalysing {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state, message and cache indicator.
func (s *Bar) renderLeft() string {
	var text string
	switch s.state {
	case StateAnalysing:
		msg := s.message
		if msg == "" {
			msg = "Analysing..."
		}
		text = s.spinner.View() + " " + s.styles.Normal.Render(msg)
	case StateError:
		if s.message != "" {
			text = s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		} else {
			text = s.styles.Error.Render("Error")
		}
	case StateDone:
		text = s.styles.Success.Render(s.message)
	default:
		text = s.styles.Muted.Render("Ready")
	}

	cache := "cache on"
	if !s.useCache {
		cache = "cache off"
	}
	return text + s.styles.Muted.Render("  ["+cache+"]")
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateDone {
		bindings = s.keymap.ResultsHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// StartAnalysing switches to the analysing state and starts the spinner.
func (s *Bar) StartAnalysing(message string) tea.Cmd {
	s.state = StateAnalysing
	s.message = message
	return s.spinner.Tick
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetUseCache sets the cache indicator.
func (s *Bar) SetUseCache(useCache bool) {
	s.useCache = useCache
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
