package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

const testURL = "https://example.com/report.pdf"

func newTestServer(t *testing.T, analysis *mockAnalysisService) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Analysis: analysis})
	require.NoError(t, err)
	return server
}

func TestServer_handleAnswerQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer", func(t *testing.T) {
		analysis := &mockAnalysisService{
			answer: &domain.Answer{Source: testURL, Query: "Who?", Text: "The authors.", FromCache: true},
		}
		server := newTestServer(t, analysis)

		_, output, err := server.handleAnswerQuery(ctx, nil, AnswerQueryInput{URL: testURL, Query: "Who?"})

		require.NoError(t, err)
		assert.Equal(t, testURL, output.URL)
		assert.Equal(t, "The authors.", output.Answer)
		assert.True(t, output.FromCache)
		assert.True(t, analysis.gotUseCache)
		assert.Equal(t, "Who?", analysis.gotQuery)
	})

	t.Run("blank query uses default and no_cache bypasses cache", func(t *testing.T) {
		analysis := &mockAnalysisService{answer: &domain.Answer{Source: testURL}}
		server := newTestServer(t, analysis)

		_, _, err := server.handleAnswerQuery(ctx, nil, AnswerQueryInput{URL: testURL, NoCache: true})

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultQuery, analysis.gotQuery)
		assert.False(t, analysis.gotUseCache)
	})

	t.Run("missing url", func(t *testing.T) {
		server := newTestServer(t, &mockAnalysisService{})

		_, _, err := server.handleAnswerQuery(ctx, nil, AnswerQueryInput{Query: "q"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("returns error on analysis failure", func(t *testing.T) {
		cause := &domain.QueryProcessingError{Source: testURL, Query: "q", Err: errors.New("llm down")}
		server := newTestServer(t, &mockAnalysisService{err: cause})

		_, _, err := server.handleAnswerQuery(ctx, nil, AnswerQueryInput{URL: testURL, Query: "q"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "llm down")
	})
}

func TestServer_handleBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("reports items and failures", func(t *testing.T) {
		analysis := &mockAnalysisService{
			items: []domain.BatchItem{
				{Source: "a", Status: domain.BatchStatusSuccess, Result: "ok"},
				{Source: "b", Status: domain.BatchStatusError, Result: "fetch b: unexpected status 404"},
			},
		}
		server := newTestServer(t, analysis)

		_, output, err := server.handleBatch(ctx, nil, BatchInput{URLs: []string{"a", "b"}})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, 1, output.Failures)
		assert.Equal(t, domain.DefaultQuery, analysis.gotQuery)
		assert.Equal(t, []string{"a", "b"}, analysis.gotSources)
	})

	t.Run("empty url list", func(t *testing.T) {
		server := newTestServer(t, &mockAnalysisService{})

		_, _, err := server.handleBatch(ctx, nil, BatchInput{Query: "q"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleInvalidate(t *testing.T) {
	ctx := context.Background()

	analysis := &mockAnalysisService{stats: domain.CacheStats{Indexes: 1, Answers: 2}}
	server := newTestServer(t, analysis)

	_, output, err := server.handleInvalidate(ctx, nil, InvalidateInput{URL: testURL})
	require.NoError(t, err)
	assert.Equal(t, []string{testURL}, analysis.invalidated)
	assert.Equal(t, 2, output.Stats.Answers)

	_, _, err = server.handleInvalidate(ctx, nil, InvalidateInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, analysis.invalidated, 1)
}

func TestServer_handleInvalidate_TrimsURL(t *testing.T) {
	analysis := &mockAnalysisService{}
	server := newTestServer(t, analysis)

	_, output, err := server.handleInvalidate(context.Background(), nil, InvalidateInput{URL: "  " + testURL + "\n"})
	require.NoError(t, err)

	assert.Equal(t, []string{testURL}, analysis.invalidated)
	assert.Equal(t, testURL, output.URL)
}
