package driven

import "context"

// VectorIndex provides semantic similarity search operations.
// One VectorIndex holds the chunk embeddings of a single Source.
type VectorIndex interface {
	// Add inserts vectors for the given chunk IDs.
	Add(ctx context.Context, ids []string, embeddings [][]float32) error

	// Search finds the k nearest neighbours to the query vector.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of stored vectors.
	Len() int

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score (-1 to 1).
	Similarity float64
}
