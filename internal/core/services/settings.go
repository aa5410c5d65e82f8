package services

import (
	"fmt"
	"os"
	"time"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driven"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyChunkSize      = "chunking.chunk_size"
	keyChunkOverlap   = "chunking.overlap"
	keyTopK           = "retrieval.top_k"
	keyMode           = "retrieval.mode"
	keyContextWindow  = "retrieval.context_window"
	keyIndexCapacity  = "cache.index_capacity"
	keyAnswerCapacity = "cache.answer_capacity"
	keyIndexTTL       = "cache.index_ttl"
	keyAnswerTTL      = "cache.answer_ttl"
	keyFetchMaxBytes  = "fetch.max_bytes"
	keyFetchTimeout   = "fetch.timeout"
	keyFetchTempDir   = "fetch.temp_dir"
	keyMaxPages       = "pdf.max_pages"
	keyServerAddr     = "server.addr"
	keyRateLimit      = "server.rate_limit"
	keyBurst          = "server.burst"
	keyWatchEnabled   = "watch.enabled"
)

// Environment variables consulted when no API key is configured.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
// API keys missing from the config store fall back to the environment.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty means the public endpoint
			APIKey:   s.getString(keyEmbedAPIKey, s.getenv(EnvOpenAIAPIKey)),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.getString(keyLLMAPIKey, s.getenv(EnvAnthropicAPIKey)),
		},
		Chunking: domain.ChunkingOptions{
			ChunkSize:    s.getInt(keyChunkSize, defaults.Chunking.ChunkSize),
			ChunkOverlap: s.getInt(keyChunkOverlap, defaults.Chunking.ChunkOverlap),
		},
		Retrieval: domain.QueryOptions{
			TopK:          s.getInt(keyTopK, defaults.Retrieval.TopK),
			Mode:          s.getMode(defaults.Retrieval.Mode),
			ContextWindow: s.getInt(keyContextWindow, defaults.Retrieval.ContextWindow),
		},
		Cache: domain.CacheSettings{
			IndexCapacity:  s.getInt(keyIndexCapacity, defaults.Cache.IndexCapacity),
			AnswerCapacity: s.getInt(keyAnswerCapacity, defaults.Cache.AnswerCapacity),
			IndexTTL:       s.getDuration(keyIndexTTL, defaults.Cache.IndexTTL),
			AnswerTTL:      s.getDuration(keyAnswerTTL, defaults.Cache.AnswerTTL),
		},
		Fetch: domain.FetchSettings{
			MaxBytes: int64(s.getInt(keyFetchMaxBytes, int(defaults.Fetch.MaxBytes))),
			Timeout:  s.getDuration(keyFetchTimeout, defaults.Fetch.Timeout),
			TempDir:  s.configStore.GetString(keyFetchTempDir),
		},
		PDF: domain.PDFSettings{
			MaxPages: s.getInt(keyMaxPages, defaults.PDF.MaxPages),
		},
		Server: domain.ServerSettings{
			Addr:      s.getString(keyServerAddr, defaults.Server.Addr),
			RateLimit: s.getFloat(keyRateLimit, defaults.Server.RateLimit),
			Burst:     s.getInt(keyBurst, defaults.Server.Burst),
		},
		WatchLocalSources: s.getBool(keyWatchEnabled, defaults.WatchLocalSources),
	}

	return settings, nil
}

// Save persists application settings.
// API keys are only written when set, so environment-supplied keys never
// end up in the config file unless the user saved them explicitly.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyChunkSize, settings.Chunking.ChunkSize},
		{keyChunkOverlap, settings.Chunking.ChunkOverlap},
		{keyTopK, settings.Retrieval.TopK},
		{keyMode, settings.Retrieval.Mode.String()},
		{keyContextWindow, settings.Retrieval.ContextWindow},
		{keyIndexCapacity, settings.Cache.IndexCapacity},
		{keyAnswerCapacity, settings.Cache.AnswerCapacity},
		{keyIndexTTL, settings.Cache.IndexTTL.String()},
		{keyAnswerTTL, settings.Cache.AnswerTTL.String()},
		{keyFetchMaxBytes, int(settings.Fetch.MaxBytes)},
		{keyFetchTimeout, settings.Fetch.Timeout.String()},
		{keyFetchTempDir, settings.Fetch.TempDir},
		{keyMaxPages, settings.PDF.MaxPages},
		{keyServerAddr, settings.Server.Addr},
		{keyRateLimit, settings.Server.RateLimit},
		{keyBurst, settings.Server.Burst},
		{keyWatchEnabled, settings.WatchLocalSources},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != s.getenv(EnvOpenAIAPIKey) {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != s.getenv(EnvAnthropicAPIKey) {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// SetSynthesisMode updates the answer synthesis mode.
func (s *SettingsService) SetSynthesisMode(mode domain.SynthesisMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("invalid synthesis mode: %s", mode)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Retrieval.Mode = mode
	return s.Save(settings)
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	defaults := domain.DefaultEmbeddingModels()
	defaultModel, ok := defaults[provider]
	if !ok {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	if apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = defaultModel
	}
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	defaults := domain.DefaultLLMModels()
	defaultModel, ok := defaults[provider]
	if !ok {
		return fmt.Errorf("provider %s does not support answer synthesis", provider)
	}

	if apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = defaultModel
	}
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that settings are complete enough to answer queries.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: set embedding.api_key or %s",
			domain.ErrEmbeddingUnavailable, EnvOpenAIAPIKey)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: set llm.api_key or %s",
			domain.ErrLLMUnavailable, EnvAnthropicAPIKey)
	}
	if settings.Chunking.ChunkOverlap >= settings.Chunking.ChunkSize {
		return fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidInput, settings.Chunking.ChunkOverlap, settings.Chunking.ChunkSize)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// GetPipelineConfig returns the post-processor pipeline for the configured chunking.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	settings, err := s.Get()
	if err != nil {
		return domain.PipelineConfigFor(domain.DefaultChunkingOptions())
	}
	return domain.PipelineConfigFor(settings.Chunking)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, exists := s.configStore.Get(key)
	if !exists {
		return defaultVal
	}
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return defaultVal
	}
}

// getDuration reads a duration string like "45m" or "1h".
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getMode(defaultVal domain.SynthesisMode) domain.SynthesisMode {
	val := s.configStore.GetString(keyMode)
	if val == "" {
		return defaultVal
	}
	mode := domain.SynthesisMode(val)
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
