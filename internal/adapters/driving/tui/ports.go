// Package tui provides an interactive terminal user interface for PDF analysis.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Analysis answers questions about PDFs.
	Analysis driving.AnalysisService

	// Settings manages application settings. Optional; the settings
	// view reports an error without it.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(analysis driving.AnalysisService, settings driving.SettingsService) *Ports {
	return &Ports{
		Analysis: analysis,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	return nil
}
