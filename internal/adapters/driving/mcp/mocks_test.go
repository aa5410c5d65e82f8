package mcp

import (
	"context"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
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
	m.gotSource, m.gotQuery, m.gotUseCache = source, query, useCache
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

func (m *mockAnalysisService) BatchAnswerQueries(
	_ context.Context,
	sources []string,
	query string,
) ([]domain.BatchItem, error) {
	m.gotSources, m.gotQuery = sources, query
	if len(sources) == 0 {
		return nil, domain.ErrInvalidInput
	}
	return m.items, m.err
}

func (m *mockAnalysisService) Invalidate(source string) {
	m.invalidated = append(m.invalidated, source)
}

func (m *mockAnalysisService) Stats() domain.CacheStats {
	return m.stats
}
