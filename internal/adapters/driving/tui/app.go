package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/keymap"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/messages"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/styles"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/views/analyse"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/views/batch"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/views/menu"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/views/settings"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	menuView     *menu.View
	analyseView  *analyse.View
	batchView    *batch.View
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		menuView:     menu.NewView(s),
		analyseView:  analyse.NewView(s, km, ports.Analysis),
		batchView:    batch.NewView(s, km, ports.Analysis),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its analysis views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.analyseView.WithContext(ctx)
	a.batchView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("pdfanalysis - Ask Claude about PDFs"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewAnalyse:
			// An analysis still running keeps its state.
			if !a.analyseView.Running() {
				a.analyseView.Reset()
			}
			return a, a.analyseView.Init()
		case messages.ViewBatch:
			if !a.batchView.Running() {
				a.batchView.Reset()
			}
			return a, a.batchView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewHelp:
		}
		return a, nil

	// Completions are routed by type so they land even after the user
	// navigated away.
	case messages.AnswerCompleted:
		a.err = msg.Err
		a.analyseView, cmd = a.analyseView.Update(msg)
		return a, cmd

	case messages.BatchCompleted:
		a.err = msg.Err
		a.batchView, cmd = a.batchView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward everything else to the active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewAnalyse:
		a.analyseView, cmd = a.analyseView.Update(msg)
	case messages.ViewBatch:
		a.batchView, cmd = a.batchView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
	}

	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewAnalyse:
		return a.analyseView.View()
	case messages.ViewBatch:
		return a.batchView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Single PDF / Batch:
  tab         Switch between inputs
  ctrl+t      Toggle answer cache (single PDF)
  ctrl+s      Analyse
  n           New analysis (from results)
  j/k, ↑/↓    Scroll answer / select PDF

An empty query asks for a detailed summary:
  ` + a.styles.Muted.Render(domain.Truncate(domain.DefaultQuery, 70)) + `

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the error of the last completed operation, if any.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// LastAnswer returns the answer shown in the analyse view, if any.
func (a *App) LastAnswer() *domain.Answer {
	return a.analyseView.Result()
}

// BatchItems returns the results shown in the batch view.
func (a *App) BatchItems() []domain.BatchItem {
	return a.batchView.Items()
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.analyseView.SetDimensions(width, height)
	a.batchView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
