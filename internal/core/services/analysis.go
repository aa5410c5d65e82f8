package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driven"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driving"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// AnalysisConfig holds the fixed parameters of the orchestrator.
type AnalysisConfig struct {
	// Chunking is handed to the index builder on every build.
	Chunking domain.ChunkingOptions

	// Query is handed to the query engine on every query.
	Query domain.QueryOptions

	// StagingDir holds transient document files. Empty means os.TempDir().
	StagingDir string
}

// DefaultAnalysisConfig returns chunking 1024/20 and top-3 tree summarisation.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Chunking: domain.DefaultChunkingOptions(),
		Query:    domain.DefaultQueryOptions(),
	}
}

// AnalysisService is the processing orchestrator. It owns the index cache
// (keyed by Source) and the answer cache (keyed by domain.CacheKey) and
// decides when the fetcher, index builder and query engine are invoked.
type AnalysisService struct {
	fetcher driven.DocumentFetcher
	builder driven.IndexBuilder
	engine  driven.QueryEngine
	indexes driven.Cache[string, driven.Index]
	answers driven.Cache[string, string]
	watcher driven.SourceWatcher
	config  AnalysisConfig

	builds  singleflight.Group
	queries singleflight.Group

	// generations is bumped by Invalidate so that a build or query started
	// before the invalidation does not repopulate the caches.
	mu          sync.Mutex
	generations map[string]uint64

	// answerKeys records the answer cache keys written for each source.
	answerKeys map[string]map[string]struct{}
}

// NewAnalysisService creates a new analysis service.
func NewAnalysisService(
	fetcher driven.DocumentFetcher,
	builder driven.IndexBuilder,
	engine driven.QueryEngine,
	indexes driven.Cache[string, driven.Index],
	answers driven.Cache[string, string],
	config AnalysisConfig,
) *AnalysisService {
	if config.Chunking.ChunkSize <= 0 {
		config.Chunking = domain.DefaultChunkingOptions()
	}
	if config.Query.TopK <= 0 {
		config.Query.TopK = domain.DefaultTopK
	}
	if !config.Query.Mode.IsValid() {
		config.Query.Mode = domain.SynthesisTreeSummarize
	}
	if config.Query.ContextWindow <= 0 {
		config.Query.ContextWindow = domain.DefaultContextWindow
	}
	return &AnalysisService{
		fetcher:     fetcher,
		builder:     builder,
		engine:      engine,
		indexes:     indexes,
		answers:     answers,
		config:      config,
		generations: make(map[string]uint64),
		answerKeys:  make(map[string]map[string]struct{}),
	}
}

// SetWatcher sets the watcher told about every newly indexed Source.
func (s *AnalysisService) SetWatcher(w driven.SourceWatcher) {
	s.watcher = w
}

// GetOrBuildIndex returns the cached Index for source, building it on a miss.
// Concurrent callers for the same uncached source share a single build.
// Failures are reported as *domain.IndexBuildError.
func (s *AnalysisService) GetOrBuildIndex(ctx context.Context, source string) (driven.Index, error) {
	if idx, ok := s.indexes.Get(source); ok {
		logger.Debug("Index cache hit: %s", source)
		return idx, nil
	}

	ch := s.builds.DoChan(source, func() (any, error) {
		if idx, ok := s.indexes.Get(source); ok {
			return idx, nil
		}
		gen := s.generation(source)

		// The build outlives a cancelled caller so that other waiters still get it.
		idx, err := s.buildIndex(context.WithoutCancel(ctx), source)
		if err != nil {
			return nil, err
		}

		if s.generation(source) == gen {
			s.indexes.Add(source, idx)
			s.watch(source)
		} else {
			logger.Debug("Source %s invalidated during build, not caching", source)
		}
		return idx, nil
	})

	select {
	case <-ctx.Done():
		return nil, &domain.IndexBuildError{Source: source, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logger.Debug("Shared in-flight build: %s", source)
		}
		return res.Val.(driven.Index), nil
	}
}

// buildIndex fetches, stages and indexes one Source.
func (s *AnalysisService) buildIndex(ctx context.Context, source string) (driven.Index, error) {
	logger.Info("Building index for %s", source)

	raw, err := s.fetcher.Fetch(ctx, source)
	if err != nil {
		var fetchErr *domain.FetchError
		if !errors.As(err, &fetchErr) {
			err = &domain.FetchError{Source: source, Err: err}
		}
		return nil, &domain.IndexBuildError{Source: source, Err: err}
	}

	cleanup, err := stageDocument(s.config.StagingDir, raw)
	defer cleanup()
	if err != nil {
		return nil, &domain.IndexBuildError{Source: source, Err: err}
	}

	idx, err := s.builder.Build(ctx, raw, s.config.Chunking)
	if err != nil {
		return nil, &domain.IndexBuildError{Source: source, Err: err}
	}

	logger.Info("Indexed %s: %d chunks", source, idx.ChunkCount())
	return idx, nil
}

// AnswerQuery returns the answer to query against source.
// With useCache the answer cache is consulted first and written on success.
// Without it the query engine is always invoked and the answer cache is left
// untouched; the index cache is used either way.
// Failures are reported as *domain.QueryProcessingError.
func (s *AnalysisService) AnswerQuery(
	ctx context.Context, source, query string, useCache bool,
) (*domain.Answer, error) {
	logger.Section("Answer Query")
	logger.Debug("Source: %s, query: %q, use cache: %t", source, query, useCache)

	source = strings.TrimSpace(source)
	if source == "" || strings.TrimSpace(query) == "" {
		return nil, &domain.QueryProcessingError{Source: source, Query: query, Err: domain.ErrInvalidInput}
	}

	if !useCache {
		text, err := s.runQuery(ctx, source, query)
		if err != nil {
			return nil, err
		}
		return &domain.Answer{Source: source, Query: query, Text: text}, nil
	}

	key := domain.CacheKey(source, query)
	if text, ok := s.answers.Get(key); ok {
		logger.Debug("Answer cache hit: %s", key)
		return &domain.Answer{Source: source, Query: query, Text: text, FromCache: true}, nil
	}
	logger.Debug("Answer cache miss: %s", key)

	ch := s.queries.DoChan(key, func() (any, error) {
		if text, ok := s.answers.Get(key); ok {
			return text, nil
		}
		gen := s.generation(source)

		text, err := s.runQuery(context.WithoutCancel(ctx), source, query)
		if err != nil {
			return nil, err
		}

		s.storeAnswer(source, key, text, gen)
		return text, nil
	})

	select {
	case <-ctx.Done():
		return nil, &domain.QueryProcessingError{Source: source, Query: query, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return &domain.Answer{Source: source, Query: query, Text: res.Val.(string)}, nil
	}
}

// runQuery resolves the index and invokes the query engine.
func (s *AnalysisService) runQuery(ctx context.Context, source, query string) (string, error) {
	idx, err := s.GetOrBuildIndex(ctx, source)
	if err != nil {
		return "", &domain.QueryProcessingError{Source: source, Query: query, Err: err}
	}

	resp, err := s.engine.Query(ctx, idx, query, s.config.Query)
	if err != nil {
		return "", &domain.QueryProcessingError{Source: source, Query: query, Err: err}
	}
	return resp.String(), nil
}

// BatchAnswerQueries answers query against every source in order, always
// through the answer cache. A failed item records the error text and the
// batch continues. The only error returned is for an empty source list.
func (s *AnalysisService) BatchAnswerQueries(
	ctx context.Context, sources []string, query string,
) ([]domain.BatchItem, error) {
	if len(sources) == 0 {
		return nil, domain.ErrInvalidInput
	}

	logger.Section("Batch Answer")
	logger.Debug("%d sources, query: %q", len(sources), query)

	items := make([]domain.BatchItem, 0, len(sources))
	for i, source := range sources {
		answer, err := s.AnswerQuery(ctx, source, query, true)
		if err != nil {
			logger.Warn("Batch item %d (%s) failed: %v", i+1, source, err)
			items = append(items, domain.BatchItem{
				Source: source,
				Status: domain.BatchStatusError,
				Result: err.Error(),
			})
			continue
		}
		items = append(items, domain.BatchItem{
			Source:    source,
			Status:    domain.BatchStatusSuccess,
			Result:    answer.Text,
			FromCache: answer.FromCache,
		})
	}

	logger.Info("Batch complete: %d items, %d failed", len(items), domain.CountFailures(items))
	return items, nil
}

// Invalidate drops the index of source and every answer computed from it.
// Builds and queries already in flight for source complete but are not cached.
func (s *AnalysisService) Invalidate(source string) {
	source = strings.TrimSpace(source)

	s.mu.Lock()
	s.generations[source]++
	keys := s.answerKeys[source]
	delete(s.answerKeys, source)
	s.mu.Unlock()

	s.builds.Forget(source)
	s.indexes.Remove(source)

	removed := 0
	for key := range keys {
		s.queries.Forget(key)
		if s.answers.Remove(key) {
			removed++
		}
	}

	if s.watcher != nil {
		if err := s.watcher.Unwatch(source); err != nil {
			logger.Debug("Unwatch %s: %v", source, err)
		}
	}
	logger.Info("Invalidated %s (%d answers dropped)", source, removed)
}

// Stats reports cache occupancy.
func (s *AnalysisService) Stats() domain.CacheStats {
	return domain.CacheStats{
		Indexes: s.indexes.Len(),
		Answers: s.answers.Len(),
	}
}

// storeAnswer caches text under key unless source was invalidated since gen.
func (s *AnalysisService) storeAnswer(source, key, text string, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[source] != gen {
		return
	}
	keys, ok := s.answerKeys[source]
	if !ok {
		keys = make(map[string]struct{})
		s.answerKeys[source] = keys
	}
	keys[key] = struct{}{}
	s.answers.Add(key, text)
}

func (s *AnalysisService) generation(source string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[source]
}

func (s *AnalysisService) watch(source string) {
	if s.watcher == nil {
		return
	}
	if _, ok := domain.LocalPath(source); !ok {
		return
	}
	if err := s.watcher.Watch(source); err != nil {
		logger.Warn("Watch %s: %v", source, err)
	}
}
