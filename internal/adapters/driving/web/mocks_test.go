package web

import (
	"context"
	"sync"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	mu          sync.Mutex
	answer      *domain.Answer
	items       []domain.BatchItem
	stats       domain.CacheStats
	err         error
	invalidated []string

	gotSource   string
	gotQuery    string
	gotUseCache bool
	gotSources  []string
}

func (m *mockAnalysisService) AnswerQuery(
	_ context.Context,
	source, query string,
	useCache bool,
) (*domain.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gotSource, m.gotQuery, m.gotUseCache = source, query, useCache
	if m.err != nil {
		return nil, m.err
	}
	if m.answer != nil {
		return m.answer, nil
	}
	return &domain.Answer{Source: source, Query: query, Text: "answer"}, nil
}

func (m *mockAnalysisService) BatchAnswerQueries(
	_ context.Context,
	sources []string,
	query string,
) ([]domain.BatchItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gotSources, m.gotQuery = sources, query
	if len(sources) == 0 {
		return nil, domain.ErrInvalidInput
	}
	return m.items, m.err
}

func (m *mockAnalysisService) Invalidate(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, source)
}

func (m *mockAnalysisService) Stats() domain.CacheStats {
	return m.stats
}
