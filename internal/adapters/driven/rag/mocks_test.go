package rag

import (
	"context"
	"strings"
	"sync"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driven"
)

// vocabulary maps known words to their own embedding dimension. Every other
// word lands in the last dimension.
var vocabulary = map[string]int{"apple": 0, "banana": 1, "cherry": 2}

const vocabDims = 4

// mockEmbedder is a bag-of-words embedder over vocabulary.
type mockEmbedder struct {
	mu      sync.Mutex
	calls   int
	err     error
	dropOne bool
}

func embedWords(text string) []float32 {
	vec := make([]float32, vocabDims)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if i, ok := vocabulary[w]; ok {
			vec[i]++
		} else {
			vec[vocabDims-1]++
		}
	}
	return vec
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return embedWords(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, embedWords(t))
	}
	if m.dropOne && len(out) > 0 {
		out = out[1:]
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return vocabDims }
func (m *mockEmbedder) ModelName() string { return "mock" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error { return nil }

// mockLLM answers with respond and records every prompt.
type mockLLM struct {
	mu      sync.Mutex
	prompts []string
	systems []string
	respond func(prompt string) (string, error)
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.systems = append(m.systems, opts.System)
	m.mu.Unlock()
	if m.respond == nil {
		return "answer", nil
	}
	return m.respond(prompt)
}

func (m *mockLLM) ModelName() string { return "mock" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error { return nil }

func (m *mockLLM) promptCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// mockPrompts serves fixed templates.
type mockPrompts struct {
	templates map[string]string
}

func newMockPrompts() *mockPrompts {
	return &mockPrompts{templates: map[string]string{
		driven.PromptSystem:         "SYSTEM",
		driven.PromptQuestionAnswer: "ANSWER\n%s\nQUERY %s",
		driven.PromptSummaryMerge:   "MERGE\n%s\nQUERY %s",
	}}
}

func (m *mockPrompts) Load(name string) (string, error) {
	t, ok := m.templates[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return t, nil
}

func (m *mockPrompts) Reload() {}

// stubIndex returns fixed chunks.
type stubIndex struct {
	chunks []domain.ScoredChunk
	err    error
	topK   int
}

func (s *stubIndex) Source() string { return "stub" }
func (s *stubIndex) Document() domain.Document { return domain.Document{} }
func (s *stubIndex) ChunkCount() int { return len(s.chunks) }

func (s *stubIndex) Retrieve(_ context.Context, _ string, topK int) ([]domain.ScoredChunk, error) {
	s.topK = topK
	if s.err != nil {
		return nil, s.err
	}
	return s.chunks, nil
}

func chunksOf(texts ...string) []domain.ScoredChunk {
	out := make([]domain.ScoredChunk, len(texts))
	for i, t := range texts {
		out[i] = domain.ScoredChunk{Chunk: domain.Chunk{ID: t, Content: t, Position: i}, Score: 1}
	}
	return out
}
