package domain

import "time"

// Document represents the normalised text of one Source.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the Source the document was fetched from.
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full text content after normalisation.
	// This is the complete document text before chunking.
	Content string

	// Pages is the page count for paginated formats, zero otherwise.
	Pages int

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was normalised.
	CreatedAt time.Time
}

// Chunk represents a retrievable unit within a document.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation for semantic search.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// ScoredChunk is a chunk returned by similarity retrieval.
type ScoredChunk struct {
	Chunk Chunk

	// Score is the cosine similarity to the query (higher is closer).
	Score float64
}
