package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

// stubProcessor returns fixed chunks, or passes its input through when chunks is nil.
type stubProcessor struct {
	name   string
	chunks []domain.Chunk
	err    error
	seen   []domain.Chunk
}

func (m *stubProcessor) Name() string {
	return m.name
}

func (m *stubProcessor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	m.seen = chunks
	if m.err != nil {
		return nil, m.err
	}
	if m.chunks != nil {
		return m.chunks, nil
	}
	return chunks, nil
}

func TestPipeline_Process(t *testing.T) {
	doc := &domain.Document{ID: "doc", Content: "text"}
	created := []domain.Chunk{{ID: "c1", Content: "first"}}
	rewritten := []domain.Chunk{{ID: "c1", Content: "changed"}, {ID: "c2", Content: "added"}}

	t.Run("empty pipeline", func(t *testing.T) {
		chunks, err := NewPipeline().Process(context.Background(), doc)
		if err != nil || chunks != nil {
			t.Errorf("expected nil, nil; got %v, %v", chunks, err)
		}
	})

	t.Run("chained processors", func(t *testing.T) {
		first := &stubProcessor{name: "first", chunks: created}
		second := &stubProcessor{name: "second", chunks: rewritten}
		passthrough := &stubProcessor{name: "passthrough"}
		p := NewPipeline(first, second)
		p.Add(passthrough)

		chunks, err := p.Process(context.Background(), doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Len() != 3 {
			t.Errorf("expected 3 processors, got %d", p.Len())
		}
		if first.seen != nil {
			t.Error("first processor must receive nil chunks")
		}
		if len(second.seen) != 1 || len(passthrough.seen) != 2 {
			t.Errorf("processors saw %d and %d chunks", len(second.seen), len(passthrough.seen))
		}
		if len(chunks) != 2 || chunks[0].Content != "changed" {
			t.Errorf("unexpected result %v", chunks)
		}
	})

	t.Run("processor error", func(t *testing.T) {
		cause := errors.New("processor failed")
		p := NewPipeline(&stubProcessor{name: "failing", err: cause})

		_, err := p.Process(context.Background(), doc)
		if !errors.Is(err, cause) {
			t.Errorf("expected wrapped cause, got %v", err)
		}
	})

	t.Run("nil document", func(t *testing.T) {
		if _, err := NewPipeline().Process(context.Background(), nil); err == nil {
			t.Error("expected error for nil document")
		}
	})
}
