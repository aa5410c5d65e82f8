package domain

// SynthesisMode selects how retrieved chunks are turned into an answer.
type SynthesisMode string

// Available synthesis modes.
const (
	// SynthesisTreeSummarize answers over groups of chunks that fit the context
	// window, then repeatedly merges the partial answers until one remains.
	SynthesisTreeSummarize SynthesisMode = "tree_summarize"

	// SynthesisCompact packs all retrieved chunks into a single LLM call.
	SynthesisCompact SynthesisMode = "compact"
)

// IsValid returns true if the synthesis mode is recognised.
func (m SynthesisMode) IsValid() bool {
	switch m {
	case SynthesisTreeSummarize, SynthesisCompact:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m SynthesisMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m SynthesisMode) Description() string {
	switch m {
	case SynthesisTreeSummarize:
		return "Tree summarize (hierarchical merge)"
	case SynthesisCompact:
		return "Compact (single call)"
	default:
		return unknownDescription
	}
}

// AllSynthesisModes returns every synthesis mode, default first.
func AllSynthesisModes() []SynthesisMode {
	return []SynthesisMode{SynthesisTreeSummarize, SynthesisCompact}
}

// Chunking defaults. Units are whitespace-delimited tokens.
const (
	DefaultChunkSize    = 1024
	DefaultChunkOverlap = 20
)

// ChunkingOptions is the fixed chunking configuration handed to the index builder.
type ChunkingOptions struct {
	// ChunkSize is the maximum number of tokens per chunk.
	ChunkSize int

	// ChunkOverlap is the number of tokens shared by consecutive chunks.
	ChunkOverlap int
}

// DefaultChunkingOptions returns the 1024/20 configuration.
func DefaultChunkingOptions() ChunkingOptions {
	return ChunkingOptions{
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
	}
}

// Retrieval defaults.
const (
	DefaultTopK          = 3
	DefaultContextWindow = 3072
)

// QueryOptions configures one query engine invocation.
type QueryOptions struct {
	// TopK is the number of most similar chunks retrieved.
	TopK int

	// Mode is the answer synthesis strategy.
	Mode SynthesisMode

	// ContextWindow bounds the tokens of context per LLM call.
	ContextWindow int
}

// DefaultQueryOptions returns top-3 retrieval with tree summarisation.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		TopK:          DefaultTopK,
		Mode:          SynthesisTreeSummarize,
		ContextWindow: DefaultContextWindow,
	}
}
