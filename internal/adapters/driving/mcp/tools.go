package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

// AnswerQueryInput is the input schema for the answer_query tool.
type AnswerQueryInput struct {
	URL     string `json:"url" jsonschema:"the PDF URL or absolute file path to analyse"`
	Query   string `json:"query,omitempty" jsonschema:"the question to answer (default: a detailed summary)"`
	NoCache bool   `json:"no_cache,omitempty" jsonschema:"recompute the answer instead of using a cached one"`
}

// AnswerQueryOutput is the output schema for the answer_query tool.
type AnswerQueryOutput struct {
	URL       string `json:"url"`
	Answer    string `json:"answer"`
	FromCache bool   `json:"from_cache"`
}

// BatchInput is the input schema for the batch_answer_queries tool.
type BatchInput struct {
	URLs  []string `json:"urls" jsonschema:"the PDF URLs or absolute file paths to analyse, in order"`
	Query string   `json:"query,omitempty" jsonschema:"the question to answer for every document"`
}

// BatchOutput is the output schema for the batch_answer_queries tool.
type BatchOutput struct {
	Results  []domain.BatchItem `json:"results"`
	Count    int                `json:"count"`
	Failures int                `json:"failures"`
}

// InvalidateInput is the input schema for the invalidate_source tool.
type InvalidateInput struct {
	URL string `json:"url" jsonschema:"the PDF URL or file path whose cached index and answers are dropped"`
}

// InvalidateOutput is the output schema for the invalidate_source tool.
type InvalidateOutput struct {
	URL   string            `json:"url"`
	Stats domain.CacheStats `json:"stats"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "answer_query",
		Description: "Answer a question about a PDF document",
	}, s.handleAnswerQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "batch_answer_queries",
		Description: "Answer the same question about several PDF documents; failures are reported per document",
	}, s.handleBatch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "invalidate_source",
		Description: "Drop the cached index and answers of a PDF so the next question re-reads it",
	}, s.handleInvalidate)
}

// queryOrDefault substitutes the default analysis request for a blank query.
func queryOrDefault(query string) string {
	if strings.TrimSpace(query) == "" {
		return domain.DefaultQuery
	}
	return query
}

// handleAnswerQuery handles the answer_query tool invocation.
func (s *Server) handleAnswerQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnswerQueryInput,
) (*mcp.CallToolResult, AnswerQueryOutput, error) {
	if strings.TrimSpace(input.URL) == "" {
		return nil, AnswerQueryOutput{}, fmt.Errorf("url is required: %w", domain.ErrInvalidInput)
	}

	answer, err := s.ports.Analysis.AnswerQuery(ctx, input.URL, queryOrDefault(input.Query), !input.NoCache)
	if err != nil {
		return nil, AnswerQueryOutput{}, err
	}

	return nil, AnswerQueryOutput{
		URL:       answer.Source,
		Answer:    answer.Text,
		FromCache: answer.FromCache,
	}, nil
}

// handleBatch handles the batch_answer_queries tool invocation.
func (s *Server) handleBatch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BatchInput,
) (*mcp.CallToolResult, BatchOutput, error) {
	items, err := s.ports.Analysis.BatchAnswerQueries(ctx, input.URLs, queryOrDefault(input.Query))
	if err != nil {
		return nil, BatchOutput{}, fmt.Errorf("at least one url is required: %w", err)
	}

	return nil, BatchOutput{
		Results:  items,
		Count:    len(items),
		Failures: domain.CountFailures(items),
	}, nil
}

// handleInvalidate handles the invalidate_source tool invocation.
func (s *Server) handleInvalidate(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input InvalidateInput,
) (*mcp.CallToolResult, InvalidateOutput, error) {
	source := strings.TrimSpace(input.URL)
	if source == "" {
		return nil, InvalidateOutput{}, fmt.Errorf("url is required: %w", domain.ErrInvalidInput)
	}

	s.ports.Analysis.Invalidate(source)
	return nil, InvalidateOutput{URL: source, Stats: s.ports.Analysis.Stats()}, nil
}
