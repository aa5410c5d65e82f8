package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driven/vector/hnsw"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driven"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/logger"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/postprocessors"
)

// Ensure Builder implements the interface.
var _ driven.IndexBuilder = (*Builder)(nil)

// VectorIndexFunc creates an empty vector index for the given dimensions.
type VectorIndexFunc func(dimensions int) (driven.VectorIndex, error)

// Builder turns raw documents into queryable indexes.
type Builder struct {
	normalisers driven.NormaliserRegistry
	processors  *postprocessors.Registry
	embedder    driven.EmbeddingService
	newVectors  VectorIndexFunc
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithVectorIndex overrides how vector indexes are created.
func WithVectorIndex(fn VectorIndexFunc) BuilderOption {
	return func(b *Builder) {
		if fn != nil {
			b.newVectors = fn
		}
	}
}

// WithProcessors overrides the post-processor registry.
func WithProcessors(r *postprocessors.Registry) BuilderOption {
	return func(b *Builder) {
		if r != nil {
			b.processors = r
		}
	}
}

// NewBuilder creates a Builder.
// embedder may be nil, in which case every Build fails with
// domain.ErrEmbeddingUnavailable.
func NewBuilder(
	normalisers driven.NormaliserRegistry,
	embedder driven.EmbeddingService,
	opts ...BuilderOption,
) *Builder {
	processors := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(processors)

	b := &Builder{
		normalisers: normalisers,
		processors:  processors,
		embedder:    embedder,
		newVectors:  newHNSW,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func newHNSW(dimensions int) (driven.VectorIndex, error) {
	return hnsw.New(dimensions)
}

// Build parses, chunks and embeds raw.
func (b *Builder) Build(ctx context.Context, raw *domain.RawDocument, opts domain.ChunkingOptions) (driven.Index, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if b.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	logger.Section("Index Build")
	start := time.Now()

	result, err := b.normalisers.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise: %w", err)
	}
	doc := result.Document
	if doc.URI == "" {
		doc.URI = raw.URI
	}
	logger.Debug("Normalised %s: %d pages, %d bytes of text", raw.URI, doc.Pages, len(doc.Content))

	pipeline, err := b.processors.BuildPipeline(domain.PipelineConfigFor(opts))
	if err != nil {
		return nil, err
	}
	chunks, err := pipeline.Process(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("chunk document: %w", err)
	}
	if len(chunks) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	logger.Debug("Chunked into %d chunks (size %d, overlap %d)", len(chunks), opts.ChunkSize, opts.ChunkOverlap)

	texts := make([]string, len(chunks))
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
		ids[i] = c.ID
	}

	embeddings, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embed chunks: got %d embeddings for %d chunks", len(embeddings), len(chunks))
	}

	vectors, err := b.newVectors(len(embeddings[0]))
	if err != nil {
		return nil, fmt.Errorf("create vector index: %w", err)
	}
	if err := vectors.Add(ctx, ids, embeddings); err != nil {
		_ = vectors.Close()
		return nil, fmt.Errorf("add vectors: %w", err)
	}

	logger.Debug("Built index for %s in %s", raw.URI, time.Since(start).Round(time.Millisecond))
	return newIndex(raw.URI, doc, chunks, vectors, b.embedder), nil
}
