// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/messages"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/styles"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driving"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionSynthesisMode
	SectionEmbedding
	SectionLLM
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
)

// Each AI role has exactly one supported provider.
const (
	embeddingProvider = domain.AIProviderOpenAI
	llmProvider       = domain.AIProviderAnthropic
)

var errNoSettingsService = errors.New("settings service not available")

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error

	section  Section
	selected int

	embeddingAPIKeyInput textinput.Model
	llmAPIKeyInput       textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:               s,
		settingsService:      settingsService,
		section:              SectionOverview,
		embeddingAPIKeyInput: newAPIKeyInput(),
		llmAPIKeyInput:       newAPIKeyInput(),
	}
}

func newAPIKeyInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Enter API key (leave empty to use the environment)"
	ti.EchoMode = textinput.EchoPassword
	ti.CharLimit = 256
	return ti
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: errNoSettingsService}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.backToOverview()
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.backToOverview()
		return v, nil
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionSynthesisMode:
		return v.handleSynthesisModeKeys(msg)
	case SectionEmbedding:
		return v.handleAPIKeyInput(msg, &v.embeddingAPIKeyInput, v.setEmbeddingProvider)
	case SectionLLM:
		return v.handleAPIKeyInput(msg, &v.llmAPIKeyInput, v.setLLMProvider)
	}

	return v, nil
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Overview menu: Synthesis Mode, Embedding, LLM
	maxItems := 3

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < maxItems-1 {
			v.selected++
		}
	case keyEnter:
		switch v.selected {
		case 0:
			v.section = SectionSynthesisMode
			v.selected = v.getSynthesisModeIndex()
		case 1:
			v.section = SectionEmbedding
			return v, v.embeddingAPIKeyInput.Focus()
		case 2:
			v.section = SectionLLM
			return v, v.llmAPIKeyInput.Focus()
		}
	}
	return v, nil
}

func (v *View) handleSynthesisModeKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	modes := domain.AllSynthesisModes()

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(modes)-1 {
			v.selected++
		}
	case keyEnter:
		if v.selected >= 0 && v.selected < len(modes) {
			return v, v.setSynthesisMode(modes[v.selected])
		}
	}
	return v, nil
}

// handleAPIKeyInput edits an API key and saves it on enter.
func (v *View) handleAPIKeyInput(
	msg tea.KeyMsg,
	field *textinput.Model,
	save func(apiKey string) tea.Cmd,
) (*View, tea.Cmd) {
	if msg.String() == keyEnter {
		return v, save(strings.TrimSpace(field.Value()))
	}
	var cmd tea.Cmd
	*field, cmd = field.Update(msg)
	return v, cmd
}

func (v *View) backToOverview() {
	v.section = SectionOverview
	v.selected = 0
	v.embeddingAPIKeyInput.SetValue("")
	v.embeddingAPIKeyInput.Blur()
	v.llmAPIKeyInput.SetValue("")
	v.llmAPIKeyInput.Blur()
}

// Commands to update settings.

func (v *View) setSynthesisMode(mode domain.SynthesisMode) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: errNoSettingsService}
		}
		return messages.SettingsSaved{Err: svc.SetSynthesisMode(mode)}
	}
}

func (v *View) setEmbeddingProvider(apiKey string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: errNoSettingsService}
		}
		model := domain.DefaultEmbeddingModels()[embeddingProvider]
		return messages.SettingsSaved{Err: svc.SetEmbeddingProvider(embeddingProvider, model, apiKey)}
	}
}

func (v *View) setLLMProvider(apiKey string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: errNoSettingsService}
		}
		model := domain.DefaultLLMModels()[llmProvider]
		return messages.SettingsSaved{Err: svc.SetLLMProvider(llmProvider, model, apiKey)}
	}
}

func (v *View) getSynthesisModeIndex() int {
	if v.settings == nil {
		return 0
	}
	for i, m := range domain.AllSynthesisModes() {
		if m == v.settings.Retrieval.Mode {
			return i
		}
	}
	return 0
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionSynthesisMode:
		b.WriteString(v.renderSynthesisModeSelect())
	case SectionEmbedding:
		b.WriteString(v.renderAPIKeyForm("Embedding Provider", embeddingProvider,
			v.settings.Embedding.Model, domain.DefaultEmbeddingModels(), v.embeddingAPIKeyInput))
	case SectionLLM:
		b.WriteString(v.renderAPIKeyForm("LLM Provider", llmProvider,
			v.settings.LLM.Model, domain.DefaultLLMModels(), v.llmAPIKeyInput))
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder

	items := []struct {
		label  string
		value  string
		status string
	}{
		{
			label: "Synthesis Mode",
			value: v.settings.Retrieval.Mode.Description(),
		},
		{
			label:  "Embedding Provider",
			value:  providerValue(v.settings.Embedding.Provider, v.settings.Embedding.Model),
			status: v.configuredStatus(v.settings.Embedding.IsConfigured()),
		},
		{
			label:  "LLM Provider",
			value:  providerValue(v.settings.LLM.Provider, v.settings.LLM.Model),
			status: v.configuredStatus(v.settings.LLM.IsConfigured()),
		},
	}

	for i, item := range items {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		line := fmt.Sprintf("%s%s: %s", indicator, item.label, item.value)
		if item.status != "" {
			line += " " + item.status
		}

		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf(
		"Top-K: %d  Chunk size: %d  Overlap: %d  Index cache: %d  Answer cache: %d",
		v.settings.Retrieval.TopK,
		v.settings.Chunking.ChunkSize,
		v.settings.Chunking.ChunkOverlap,
		v.settings.Cache.IndexCapacity,
		v.settings.Cache.AnswerCapacity,
	)))
	b.WriteString("\n\n")

	if v.settingsService != nil {
		if err := v.settingsService.Validate(); err != nil {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %s", err.Error())))
		} else {
			b.WriteString(v.styles.Success.Render("Configuration is valid"))
		}
	}

	return b.String()
}

func providerValue(provider domain.AIProvider, model string) string {
	if provider == "" {
		return "Not Set"
	}
	return fmt.Sprintf("%s (%s)", provider.Description(), model)
}

func (v *View) configuredStatus(configured bool) string {
	if configured {
		return v.styles.Success.Render("[configured]")
	}
	return v.styles.Warning.Render("[needs API key]")
}

func (v *View) renderSynthesisModeSelect() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Select Synthesis Mode"))
	b.WriteString("\n\n")

	for i, mode := range domain.AllSynthesisModes() {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		current := ""
		if mode == v.settings.Retrieval.Mode {
			current = v.styles.Success.Render(" (current)")
		}

		line := fmt.Sprintf("%s%s%s", indicator, mode.Description(), current)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderAPIKeyForm(
	title string,
	provider domain.AIProvider,
	currentModel string,
	defaults map[domain.AIProvider]string,
	field textinput.Model,
) string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Normal.Render(provider.Description()))
	b.WriteString("\n")

	model := defaults[provider]
	if currentModel != "" && currentModel != model {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("    Model: %s (saving resets to %s)", currentModel, model)))
	} else {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("    Model: %s", model)))
	}
	b.WriteString("\n\n")

	b.WriteString(v.styles.Normal.Render("API Key:"))
	b.WriteString("\n")
	b.WriteString(field.View())
	b.WriteString("\n")

	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back")
	case SectionSynthesisMode:
		return v.styles.Help.Render("[j/k] navigate  [enter] select  [esc] back")
	case SectionEmbedding, SectionLLM:
		return v.styles.Help.Render("[enter] save  [esc] back")
	default:
		return ""
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.backToOverview()
	v.err = nil
}
