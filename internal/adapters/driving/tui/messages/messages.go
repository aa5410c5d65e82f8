// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewAnalyse asks one question about one PDF.
	ViewAnalyse
	// ViewBatch asks one question about many PDFs.
	ViewBatch
	// ViewSettings shows and edits settings.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewAnalyse:
		return "analyse"
	case ViewBatch:
		return "batch"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// AnswerCompleted carries the answer for a single-PDF analysis.
type AnswerCompleted struct {
	Answer *domain.Answer
	Err    error
}

// BatchCompleted carries the per-PDF outcomes of a batch analysis.
type BatchCompleted struct {
	Items []domain.BatchItem
	Err   error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
