package cli

import (
	"context"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/web"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driving"
)

// MockAnalysisService implements driving.AnalysisService for CLI tests.
type MockAnalysisService struct {
	AnswerQueryFunc func(ctx context.Context, source, query string, useCache bool) (*domain.Answer, error)
	BatchFunc       func(ctx context.Context, sources []string, query string) ([]domain.BatchItem, error)
	Invalidated     []string
}

func (m *MockAnalysisService) AnswerQuery(
	ctx context.Context, source, query string, useCache bool,
) (*domain.Answer, error) {
	if m.AnswerQueryFunc != nil {
		return m.AnswerQueryFunc(ctx, source, query, useCache)
	}
	return &domain.Answer{Source: source, Query: query, Text: "mock answer"}, nil
}

func (m *MockAnalysisService) BatchAnswerQueries(
	ctx context.Context, sources []string, query string,
) ([]domain.BatchItem, error) {
	if m.BatchFunc != nil {
		return m.BatchFunc(ctx, sources, query)
	}
	items := make([]domain.BatchItem, len(sources))
	for i, s := range sources {
		items[i] = domain.BatchItem{Source: s, Status: domain.BatchStatusSuccess, Result: "answer for " + s}
	}
	return items, nil
}

func (m *MockAnalysisService) Invalidate(source string) {
	m.Invalidated = append(m.Invalidated, source)
}

func (m *MockAnalysisService) Stats() domain.CacheStats { return domain.CacheStats{} }

// MockSettingsService implements driving.SettingsService for CLI tests.
type MockSettingsService struct {
	Settings      *domain.AppSettings
	ValidateErr   error
	PingErr       error
	SavedMode     domain.SynthesisMode
	SavedLLMKey   string
	SavedEmbedKey string
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	if m.Settings == nil {
		s := domain.DefaultAppSettings()
		m.Settings = &s
	}
	return m.Settings, nil
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	m.Settings = settings
	return nil
}

func (m *MockSettingsService) SetSynthesisMode(mode domain.SynthesisMode) error {
	m.SavedMode = mode
	return nil
}

func (m *MockSettingsService) SetEmbeddingProvider(_ domain.AIProvider, _, apiKey string) error {
	m.SavedEmbedKey = apiKey
	return nil
}

func (m *MockSettingsService) SetLLMProvider(_ domain.AIProvider, _, apiKey string) error {
	m.SavedLLMKey = apiKey
	return nil
}

func (m *MockSettingsService) Validate() error { return m.ValidateErr }

func (m *MockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *MockSettingsService) ValidateEmbeddingConfig() error { return m.PingErr }

func (m *MockSettingsService) ValidateLLMConfig() error { return m.PingErr }

var (
	_ driving.AnalysisService = (*MockAnalysisService)(nil)
	_ driving.SettingsService = (*MockSettingsService)(nil)
)

// testServices are the mocks installed by setupTestServices.
type testServices struct {
	analysis *MockAnalysisService
	settings *MockSettingsService
}

// setupTestServices installs mock services so bootstrap skips wiring.
// The returned cleanup restores the previous services and flag values.
func setupTestServices() (*testServices, func()) {
	prevAnalysis, prevSettings := analysisService, settingsService
	prevServer, prevWarnings := serverConfig, startupWarnings

	svc := &testServices{
		analysis: &MockAnalysisService{},
		settings: &MockSettingsService{},
	}
	analysisService = svc.analysis
	settingsService = svc.settings
	serverConfig = web.Config{Addr: domain.DefaultServerAddr}
	startupWarnings = nil

	return svc, func() {
		analysisService, settingsService = prevAnalysis, prevSettings
		serverConfig, startupWarnings = prevServer, prevWarnings

		askNoCache, askJSON = false, false
		batchQuery, batchFile, batchJSON = domain.DefaultQuery, "", false
		serveAddr = ""
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}
}
