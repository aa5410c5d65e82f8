package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.Index = (*Index)(nil)

// Index is the semantic index of one Source.
// It is immutable after construction and safe for concurrent Retrieve calls.
type Index struct {
	source   string
	doc      domain.Document
	chunks   map[string]domain.Chunk
	vectors  driven.VectorIndex
	embedder driven.EmbeddingService
}

func newIndex(
	source string,
	doc domain.Document,
	chunks []domain.Chunk,
	vectors driven.VectorIndex,
	embedder driven.EmbeddingService,
) *Index {
	byID := make(map[string]domain.Chunk, len(chunks))
	for _, c := range chunks {
		// The vector index owns the embeddings.
		c.Embedding = nil
		byID[c.ID] = c
	}
	return &Index{
		source:   source,
		doc:      doc,
		chunks:   byID,
		vectors:  vectors,
		embedder: embedder,
	}
}

// Source returns the Source the index was built from.
func (x *Index) Source() string {
	return x.source
}

// Document returns the normalised document.
func (x *Index) Document() domain.Document {
	return x.doc
}

// ChunkCount returns the number of indexed chunks.
func (x *Index) ChunkCount() int {
	return len(x.chunks)
}

// Retrieve returns the topK chunks most similar to query, best first.
func (x *Index) Retrieve(ctx context.Context, query string, topK int) ([]domain.ScoredChunk, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidInput
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	vec, err := x.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := x.vectors.Search(ctx, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]domain.ScoredChunk, 0, len(hits))
	for _, hit := range hits {
		chunk, ok := x.chunks[hit.ChunkID]
		if !ok {
			continue
		}
		results = append(results, domain.ScoredChunk{Chunk: chunk, Score: hit.Similarity})
	}
	return results, nil
}

// Close releases the vector index.
func (x *Index) Close() error {
	return x.vectors.Close()
}
