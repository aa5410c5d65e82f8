package rag

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driven"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/logger"
)

// Ensure Engine implements the interface.
var _ driven.QueryEngine = (*Engine)(nil)

// EmptyResponse is the answer when retrieval finds nothing.
const EmptyResponse = "Empty Response"

// Synthesis limits.
const (
	// minContextBudget is the smallest per-call context, in tokens.
	minContextBudget = 256

	// DefaultConcurrency bounds parallel LLM calls within one tree level.
	DefaultConcurrency = 4

	// partSeparator joins the texts packed into one prompt.
	partSeparator = "\n\n"
)

// Engine answers queries by retrieval plus LLM synthesis.
type Engine struct {
	llm         driven.LLMService
	prompts     driven.PromptStore
	concurrency int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithConcurrency sets the number of parallel LLM calls per tree level.
func WithConcurrency(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// NewEngine creates a query engine.
// llm may be nil, in which case every Query fails with domain.ErrLLMUnavailable.
func NewEngine(llm driven.LLMService, prompts driven.PromptStore, opts ...EngineOption) *Engine {
	e := &Engine{
		llm:         llm,
		prompts:     prompts,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Query retrieves opts.TopK chunks from index and synthesises an answer.
func (e *Engine) Query(
	ctx context.Context, index driven.Index, query string, opts domain.QueryOptions,
) (*driven.Response, error) {
	if index == nil || strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidInput
	}
	if e.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if opts.TopK <= 0 {
		opts.TopK = domain.DefaultTopK
	}
	if opts.ContextWindow <= 0 {
		opts.ContextWindow = domain.DefaultContextWindow
	}
	if opts.Mode == "" {
		opts.Mode = domain.SynthesisTreeSummarize
	}

	chunks, err := index.Retrieve(ctx, query, opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	logger.Debug("Retrieved %d chunks for %q", len(chunks), query)
	for _, c := range chunks {
		logger.Debug("  chunk %d score=%.3f", c.Chunk.Position, c.Score)
	}

	if len(chunks) == 0 {
		return &driven.Response{Text: EmptyResponse}, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Chunk.Content
	}

	p, err := e.loadPrompts()
	if err != nil {
		return nil, err
	}

	var text string
	switch opts.Mode {
	case domain.SynthesisCompact:
		text, err = e.generate(ctx, p.system, fmt.Sprintf(p.answer, strings.Join(texts, partSeparator), query))
	case domain.SynthesisTreeSummarize:
		text, err = e.treeSummarize(ctx, p, texts, query, opts.ContextWindow)
	default:
		return nil, fmt.Errorf("%w: unknown synthesis mode %q", domain.ErrInvalidInput, opts.Mode)
	}
	if err != nil {
		return nil, err
	}

	return &driven.Response{Text: strings.TrimSpace(text), SourceChunks: chunks}, nil
}

// promptSet holds the templates of one query.
type promptSet struct {
	system string
	answer string
	merge  string
}

func (e *Engine) loadPrompts() (promptSet, error) {
	var p promptSet
	var err error
	if p.system, err = e.prompts.Load(driven.PromptSystem); err != nil {
		return p, fmt.Errorf("load system prompt: %w", err)
	}
	if p.answer, err = e.prompts.Load(driven.PromptQuestionAnswer); err != nil {
		return p, fmt.Errorf("load answer prompt: %w", err)
	}
	if p.merge, err = e.prompts.Load(driven.PromptSummaryMerge); err != nil {
		return p, fmt.Errorf("load merge prompt: %w", err)
	}
	return p, nil
}

// treeSummarize answers each context-window group of texts, then merges the
// partial answers level by level until one answer remains.
func (e *Engine) treeSummarize(
	ctx context.Context, p promptSet, texts []string, query string, window int,
) (string, error) {
	groups := pack(texts, contextBudget(p.answer, query, window), 1)
	answers, err := e.answerGroups(ctx, p.system, p.answer, groups, query)
	if err != nil {
		return "", err
	}

	level := 1
	for len(answers) > 1 {
		groups = pack(answers, contextBudget(p.merge, query, window), 2)
		logger.Debug("Tree level %d: merging %d answers in %d groups", level, len(answers), len(groups))
		if answers, err = e.answerGroups(ctx, p.system, p.merge, groups, query); err != nil {
			return "", err
		}
		level++
	}
	return answers[0], nil
}

// answerGroups runs template over every group concurrently, preserving order.
func (e *Engine) answerGroups(
	ctx context.Context, system, template string, groups [][]string, query string,
) ([]string, error) {
	answers := make([]string, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, group := range groups {
		g.Go(func() error {
			prompt := fmt.Sprintf(template, strings.Join(group, partSeparator), query)
			text, err := e.generate(gctx, system, prompt)
			if err != nil {
				return err
			}
			answers[i] = strings.TrimSpace(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return answers, nil
}

func (e *Engine) generate(ctx context.Context, system, prompt string) (string, error) {
	text, err := e.llm.Generate(ctx, prompt, driven.GenerateOptions{System: system})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return text, nil
}

// contextBudget is the number of context tokens left in window after the
// template and query.
func contextBudget(template, query string, window int) int {
	budget := window - countTokens(template) - countTokens(query)
	return max(budget, minContextBudget)
}

// pack groups texts in order so that each group fits budget tokens.
// A group always takes at least minPerGroup texts when that many remain,
// even past the budget, so repeated packing always shrinks the input.
func pack(texts []string, budget, minPerGroup int) [][]string {
	var groups [][]string
	var current []string
	used := 0

	for _, t := range texts {
		n := countTokens(t)
		if len(current) >= minPerGroup && used+n > budget {
			groups = append(groups, current)
			current, used = nil, 0
		}
		current = append(current, t)
		used += n
	}
	if len(current) > 0 {
		// A trailing singleton cannot be merged on its own.
		if len(current) < minPerGroup && len(groups) > 0 {
			last := len(groups) - 1
			groups[last] = append(groups[last], current...)
		} else {
			groups = append(groups, current)
		}
	}
	return groups
}

// countTokens approximates tokens as whitespace-delimited words, the same
// unit the chunker uses.
func countTokens(s string) int {
	return len(strings.Fields(s))
}
