// Package app assembles the analysis service and its adapters from settings.
package app

import (
	"errors"
	"path/filepath"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driven/ai"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driven/cache/lru"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driven/config/file"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driven/config/memory"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driven/embedding/cached"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driven/fetch"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driven/rag"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driven/watcher"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driven"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/services"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/logger"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/normalisers"
)

// Options selects where configuration comes from.
type Options struct {
	// ConfigDir holds config.toml and prompts/ (default: ~/.pdfanalysis).
	ConfigDir string

	// NoConfig ignores config.toml; settings come from defaults and the environment.
	NoConfig bool

	// ValidateAI pings the AI providers at start-up and drops unreachable ones.
	ValidateAI bool
}

// App holds the wired services.
type App struct {
	Settings    *services.SettingsService
	Analysis    *services.AnalysisService
	AppSettings *domain.AppSettings

	// Warnings lists degraded capabilities, such as a missing API key.
	Warnings []string

	closers []func() error
}

// New wires the application. Missing API keys never fail start-up; they
// surface as Warnings and as errors from the affected operations.
func New(opts Options) (*App, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	var store driven.ConfigStore
	if opts.NoConfig {
		store = memory.NewConfigStore(nil)
	} else {
		fileStore, err := file.NewConfigStore(configDir)
		if err != nil {
			return nil, err
		}
		logger.Debug("Config: %s", fileStore.Path())
		store = fileStore
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return nil, err
	}

	settingsService := services.NewSettingsService(store, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	a := &App{
		Settings:    settingsService,
		AppSettings: settings,
	}

	aiServices := ai.Initialise(settings, opts.ValidateAI)
	a.Warnings = append(a.Warnings, aiServices.Warnings...)
	a.closers = append(a.closers, func() error {
		aiServices.Close()
		return nil
	})

	// Keep a nil interface when there is no embedder.
	var embedder driven.EmbeddingService
	if aiServices.EmbeddingService != nil {
		embedder = cached.New(aiServices.EmbeddingService, cached.DefaultCacheSize)
	}

	builder := rag.NewBuilder(normalisers.NewDefaultRegistry(settings.PDF.MaxPages), embedder)
	engine := rag.NewEngine(aiServices.LLMService, prompts)
	fetcher := fetch.New(fetch.Config{
		MaxBytes: settings.Fetch.MaxBytes,
		Timeout:  settings.Fetch.Timeout,
	})

	indexes := lru.New[string, driven.Index]("index", settings.Cache.IndexCapacity, settings.Cache.IndexTTL)
	answers := lru.New[string, string]("answer", settings.Cache.AnswerCapacity, settings.Cache.AnswerTTL)

	a.Analysis = services.NewAnalysisService(fetcher, builder, engine, indexes, answers, services.AnalysisConfig{
		Chunking:   settings.Chunking,
		Query:      settings.Retrieval,
		StagingDir: settings.Fetch.TempDir,
	})

	if settings.WatchLocalSources {
		w, err := watcher.New(a.Analysis.Invalidate)
		if err != nil {
			msg := "local file watching disabled: " + err.Error()
			logger.Warn("%s", msg)
			a.Warnings = append(a.Warnings, msg)
		} else {
			a.Analysis.SetWatcher(w)
			a.closers = append(a.closers, w.Close)
		}
	}

	return a, nil
}

// Close releases every resource opened by New, in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
