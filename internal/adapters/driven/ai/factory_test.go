package ai

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

// statusServer answers every request with status.
func statusServer(t *testing.T, status int) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server.URL
}

func TestInitResult_Close(t *testing.T) {
	t.Run("close with nil services", func(t *testing.T) {
		result := &InitResult{}
		// Should not panic
		result.Close()
		if result.Ready() {
			t.Error("empty result should not be ready")
		}
	})
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.EmbeddingSettings
		wantNil  bool
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.EmbeddingSettings{},
			wantNil:  true,
		},
		{
			name: "openai without key returns nil",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
			},
			wantNil: true,
		},
		{
			name: "openai provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-large",
			},
			wantNil: false,
		},
		{
			name: "anthropic offers no embeddings",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil && svc != nil {
				t.Error("expected nil service, got non-nil")
			}
			if !tt.wantNil {
				if svc == nil {
					t.Fatal("expected non-nil service, got nil")
				}
				if svc.Dimensions() != 3072 {
					t.Errorf("dimensions = %d, want 3072", svc.Dimensions())
				}
				svc.Close()
			}
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantNil  bool
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "missing key returns nil",
			settings: &domain.LLMSettings{Provider: domain.AIProviderAnthropic},
			wantNil:  true,
		},
		{
			name:     "openai is not an llm provider here",
			settings: &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k"},
			wantNil:  true,
		},
		{
			name: "anthropic provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
				Model:    "claude-3-5-sonnet-latest",
			},
			wantNil: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil && svc != nil {
				t.Error("expected nil service, got non-nil")
			}
			if !tt.wantNil {
				if svc == nil {
					t.Fatal("expected non-nil service, got nil")
				}
				if svc.ModelName() != tt.settings.Model {
					t.Errorf("model = %q, want %q", svc.ModelName(), tt.settings.Model)
				}
				svc.Close()
			}
		})
	}
}

func TestCreateAndValidateEmbeddingService(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		svc, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{
			Provider: domain.AIProviderOpenAI,
			APIKey:   "k",
			BaseURL:  statusServer(t, http.StatusOK),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svc == nil {
			t.Fatal("expected service")
		}
	})

	t.Run("rejected key", func(t *testing.T) {
		svc, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{
			Provider: domain.AIProviderOpenAI,
			APIKey:   "k",
			BaseURL:  statusServer(t, http.StatusUnauthorized),
		})
		if svc != nil {
			t.Error("expected nil service")
		}
		if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
			t.Errorf("error = %v, want ErrEmbeddingUnavailable", err)
		}
		if err != nil && !strings.Contains(err.Error(), "settings check") {
			t.Errorf("error %q should carry a hint", err.Error())
		}
	})

	t.Run("unconfigured", func(t *testing.T) {
		svc, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{})
		if svc != nil || err != nil {
			t.Errorf("got (%v, %v), want (nil, nil)", svc, err)
		}
	})
}

func TestCreateAndValidateLLMService(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		svc, err := CreateAndValidateLLMService(&domain.LLMSettings{
			Provider: domain.AIProviderAnthropic,
			APIKey:   "k",
			BaseURL:  statusServer(t, http.StatusOK),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svc == nil {
			t.Fatal("expected service")
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		svc, err := CreateAndValidateLLMService(&domain.LLMSettings{
			Provider: domain.AIProviderAnthropic,
			APIKey:   "k",
			BaseURL:  statusServer(t, http.StatusInternalServerError),
		})
		if svc != nil {
			t.Error("expected nil service")
		}
		if !errors.Is(err, domain.ErrLLMUnavailable) {
			t.Errorf("error = %v, want ErrLLMUnavailable", err)
		}
	})
}

func TestValidateConfigs(t *testing.T) {
	if err := ValidateEmbeddingConfig(nil); err != nil {
		t.Errorf("nil embedding config: %v", err)
	}
	if err := ValidateLLMConfig(nil); err != nil {
		t.Errorf("nil llm config: %v", err)
	}

	err := ValidateEmbeddingConfig(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		APIKey:   "k",
		BaseURL:  statusServer(t, http.StatusForbidden),
	})
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Errorf("error = %v, want status 403", err)
	}

	err = ValidateLLMConfig(&domain.LLMSettings{
		Provider: domain.AIProviderAnthropic,
		APIKey:   "k",
		BaseURL:  statusServer(t, http.StatusOK),
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInitialise(t *testing.T) {
	t.Run("no keys", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		result := Initialise(&settings, false)
		defer result.Close()

		if result.Ready() {
			t.Error("should not be ready without keys")
		}
		if len(result.Warnings) != 2 {
			t.Fatalf("warnings = %v, want 2", result.Warnings)
		}
		if !strings.Contains(result.Warnings[0], "OPENAI_API_KEY") {
			t.Errorf("warning %q should name the embedding key", result.Warnings[0])
		}
		if !strings.Contains(result.Warnings[1], "ANTHROPIC_API_KEY") {
			t.Errorf("warning %q should name the llm key", result.Warnings[1])
		}
	})

	t.Run("keys without validation", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.Embedding.APIKey = "e"
		settings.LLM.APIKey = "l"

		result := Initialise(&settings, false)
		defer result.Close()

		if !result.Ready() {
			t.Errorf("should be ready, warnings: %v", result.Warnings)
		}
	})

	t.Run("validation drops unreachable service", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.Embedding.APIKey = "e"
		settings.Embedding.BaseURL = statusServer(t, http.StatusOK)
		settings.LLM.APIKey = "l"
		settings.LLM.BaseURL = statusServer(t, http.StatusUnauthorized)

		result := Initialise(&settings, true)
		defer result.Close()

		if result.EmbeddingService == nil {
			t.Error("embedding service should survive validation")
		}
		if result.LLMService != nil {
			t.Error("llm service should be dropped")
		}
		if len(result.Warnings) != 1 {
			t.Errorf("warnings = %v, want 1", result.Warnings)
		}
	})
}
