package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for analysis resources.
	uriScheme = "pdfanalysis://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for cache occupancy.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stats",
		Name:        "stats",
		Description: "Number of cached document indexes and answers",
		MIMEType:    "application/json",
	}, s.handleStatsResource)

	// Template for a document summary.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "summary/{source}",
		Name:        "document-summary",
		Description: "Detailed summary of a PDF; source is the URL-escaped document URL",
		MIMEType:    "text/plain",
	}, s.handleSummaryResource)
}

// handleStatsResource returns cache occupancy as JSON.
func (s *Server) handleStatsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(s.ports.Analysis.Stats(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling stats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleSummaryResource answers the default query for the source in the URI.
func (s *Server) handleSummaryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	source := extractSource(req.Params.URI)
	if source == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	answer, err := s.ports.Analysis.AnswerQuery(ctx, source, domain.DefaultQuery, true)
	if err != nil {
		return nil, fmt.Errorf("summarising document: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     answer.Text,
		}},
	}, nil
}

// extractSource extracts the source from a URI like pdfanalysis://summary/{source}.
func extractSource(uri string) string {
	const prefix = uriScheme + "summary/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	source, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return source
}
