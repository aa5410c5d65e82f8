package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the API key. Falls back to OPENAI_API_KEY.
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
// Anthropic offers no embeddings API.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.Provider == AIProviderOpenAI && e.APIKey != ""
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the API key. Falls back to ANTHROPIC_API_KEY.
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider == AIProviderAnthropic && l.APIKey != ""
}

// CacheSettings bounds the index and answer caches.
// A zero TTL means entries never expire.
type CacheSettings struct {
	IndexCapacity  int
	AnswerCapacity int
	IndexTTL       time.Duration
	AnswerTTL      time.Duration
}

// FetchSettings configures document retrieval.
type FetchSettings struct {
	// MaxBytes caps the size of a downloaded document.
	MaxBytes int64

	// Timeout bounds a single download. Zero disables the deadline.
	Timeout time.Duration

	// TempDir is where in-flight documents are staged. Empty means os.TempDir().
	TempDir string
}

// PDFSettings configures PDF normalisation.
type PDFSettings struct {
	// MaxPages rejects documents with more pages. Zero disables the check.
	MaxPages int
}

// ServerSettings configures the web UI.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// RateLimit is the sustained number of analysis requests per second.
	RateLimit float64

	// Burst is the maximum burst of analysis requests.
	Burst int
}

// AppSettings holds all application settings.
type AppSettings struct {
	LLM       LLMSettings
	Embedding EmbeddingSettings
	Chunking  ChunkingOptions
	Retrieval QueryOptions
	Cache     CacheSettings
	Fetch     FetchSettings
	PDF       PDFSettings
	Server    ServerSettings

	// WatchLocalSources invalidates indices of local files when they change.
	WatchLocalSources bool
}

// Defaults for settings not tied to a provider.
const (
	DefaultIndexCacheCapacity  = 64
	DefaultAnswerCacheCapacity = 1024
	DefaultMaxDocumentBytes    = 32 << 20
	DefaultFetchTimeout        = 60 * time.Second
	DefaultMaxPages            = 100
	DefaultServerAddr          = "127.0.0.1:8501"
)

// DefaultAppSettings returns settings with sensible defaults.
// API keys are left empty; they come from the config file or the environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{
			Provider: AIProviderAnthropic,
			Model:    DefaultLLMModels()[AIProviderAnthropic],
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultEmbeddingModels()[AIProviderOpenAI],
		},
		Chunking:  DefaultChunkingOptions(),
		Retrieval: DefaultQueryOptions(),
		Cache: CacheSettings{
			IndexCapacity:  DefaultIndexCacheCapacity,
			AnswerCapacity: DefaultAnswerCacheCapacity,
		},
		Fetch: FetchSettings{
			MaxBytes: DefaultMaxDocumentBytes,
			Timeout:  DefaultFetchTimeout,
		},
		PDF: PDFSettings{
			MaxPages: DefaultMaxPages,
		},
		Server: ServerSettings{
			Addr:      DefaultServerAddr,
			RateLimit: 2,
			Burst:     5,
		},
		WatchLocalSources: true,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfigFor returns the pipeline that chunks with the given options.
func PipelineConfigFor(opts ChunkingOptions) PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": opts.ChunkSize,
				"overlap":    opts.ChunkOverlap,
			},
		},
	}
}
