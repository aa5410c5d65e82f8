package driven

import (
	"context"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

// Index is a queryable semantic index built from one Source.
// Implementations must be safe for concurrent Retrieve calls.
type Index interface {
	// Source returns the Source the index was built from.
	Source() string

	// Document returns the normalised document.
	Document() domain.Document

	// ChunkCount returns the number of indexed chunks.
	ChunkCount() int

	// Retrieve returns the topK chunks most similar to the query text.
	Retrieve(ctx context.Context, query string, topK int) ([]domain.ScoredChunk, error)
}

// IndexBuilder constructs an Index from fetched document bytes.
type IndexBuilder interface {
	// Build parses, chunks and embeds the document.
	Build(ctx context.Context, raw *domain.RawDocument, opts domain.ChunkingOptions) (Index, error)
}

// Response is the query engine's output.
type Response struct {
	// Text is the synthesised answer.
	Text string

	// SourceChunks are the retrieved chunks the answer was built from.
	SourceChunks []domain.ScoredChunk
}

// String returns the display form of the response.
func (r *Response) String() string {
	if r == nil {
		return ""
	}
	return r.Text
}

// QueryEngine answers natural-language questions against an Index.
type QueryEngine interface {
	// Query retrieves opts.TopK chunks and synthesises an answer with opts.Mode.
	Query(ctx context.Context, index Index, query string, opts domain.QueryOptions) (*Response, error)
}
