// Package chunker provides a fixed-size token window chunking processor.
package chunker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

// PageBreak separates pages in normalised document content.
const PageBreak = "\f"

// Processor splits document content into windows of whitespace-delimited tokens.
// Consecutive windows share overlap tokens. It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in tokens.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in tokens.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
// Defaults to 1024 tokens with an overlap of 20.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: domain.DefaultChunkSize,
		overlap:   domain.DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Overlap must leave the window room to advance.
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the window size in tokens.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the number of tokens shared by consecutive chunks.
func (p *Processor) Overlap() int {
	return p.overlap
}

// token is one word of content and the 1-based page it appeared on.
type token struct {
	text string
	page int
}

// tokenize splits content into words, tracking PageBreak boundaries.
func tokenize(content string) []token {
	var tokens []token
	for i, page := range strings.Split(content, PageBreak) {
		for _, word := range strings.Fields(page) {
			tokens = append(tokens, token{text: word, page: i + 1})
		}
	}
	return tokens
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
// Each chunk records the pages it spans in the "page_start" and "page_end" metadata.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	tokens := tokenize(doc.Content)
	if len(tokens) == 0 {
		return nil, nil
	}

	step := p.chunkSize - p.overlap
	chunks := make([]domain.Chunk, 0, len(tokens)/step+1)

	for start := 0; start < len(tokens); start += step {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(start+p.chunkSize, len(tokens))
		window := tokens[start:end]

		words := make([]string, len(window))
		for i, t := range window {
			words[i] = t.text
		}

		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    strings.Join(words, " "),
			Position:   len(chunks),
			Metadata: map[string]any{
				"page_start": window[0].page,
				"page_end":   window[len(window)-1].page,
				"tokens":     len(window),
			},
		})

		// The last window already reached the end of the content.
		if end == len(tokens) {
			break
		}
	}

	return chunks, nil
}
