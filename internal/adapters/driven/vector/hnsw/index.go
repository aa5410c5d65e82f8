// Package hnsw provides an in-memory VectorIndex backed by coder/hnsw.
// One index holds the chunk embeddings of a single document.
package hnsw

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/coder/hnsw"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Graph parameters.
const (
	DefaultM        = 16
	DefaultEfSearch = 20
	levelFactor     = 0.25
)

// ErrClosed is returned by operations on a closed index.
var ErrClosed = errors.New("vector index is closed")

// DimensionError reports a vector whose length does not match the index.
type DimensionError struct {
	Expected int
	Got      int
}

func (e DimensionError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}

// Index is a cosine-similarity HNSW graph keyed by chunk ID.
// Vectors are normalised on insert so cosine distance is 1 - dot product.
type Index struct {
	mu         sync.RWMutex
	graph      *hnsw.Graph[uint64]
	dimensions int

	ids     map[string]uint64
	keys    map[uint64]string
	nextKey uint64

	closed bool
}

// Option configures the index.
type Option func(*hnsw.Graph[uint64])

// WithEfSearch sets the candidate list size used during search.
func WithEfSearch(ef int) Option {
	return func(g *hnsw.Graph[uint64]) {
		if ef > 0 {
			g.EfSearch = ef
		}
	}
}

// New creates an empty index for vectors of the given size.
func New(dimensions int, opts ...Option) (*Index, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("invalid dimensions: %d", dimensions)
	}

	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = DefaultM
	graph.EfSearch = DefaultEfSearch
	graph.Ml = levelFactor
	for _, opt := range opts {
		opt(graph)
	}

	return &Index{
		graph:      graph,
		dimensions: dimensions,
		ids:        make(map[string]uint64),
		keys:       make(map[uint64]string),
	}, nil
}

// Add inserts vectors for the given chunk IDs.
// Re-adding an ID orphans its old node rather than deleting it from the graph.
func (x *Index) Add(ctx context.Context, ids []string, embeddings [][]float32) error {
	if len(ids) != len(embeddings) {
		return fmt.Errorf("ids and embeddings length mismatch: %d vs %d", len(ids), len(embeddings))
	}
	for _, v := range embeddings {
		if len(v) != x.dimensions {
			return DimensionError{Expected: x.dimensions, Got: len(v)}
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return ErrClosed
	}

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		if old, ok := x.ids[id]; ok {
			delete(x.keys, old)
		}

		key := x.nextKey
		x.nextKey++

		x.graph.Add(hnsw.MakeNode(key, normalise(embeddings[i])))
		x.ids[id] = key
		x.keys[key] = id
	}
	return nil
}

// Search returns up to k chunks ordered by descending cosine similarity.
func (x *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) != x.dimensions {
		return nil, DimensionError{Expected: x.dimensions, Got: len(query)}
	}
	if k <= 0 {
		return nil, nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.closed {
		return nil, ErrClosed
	}
	if x.graph.Len() == 0 {
		return nil, nil
	}

	q := normalise(query)

	// Orphaned nodes still occupy result slots.
	limit := k + x.graph.Len() - len(x.keys)
	nodes := x.graph.Search(q, limit)

	hits := make([]driven.VectorHit, 0, len(nodes))
	for _, node := range nodes {
		id, ok := x.keys[node.Key]
		if !ok {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:    id,
			Similarity: 1 - float64(hnsw.CosineDistance(q, node.Value)),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of live vectors.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.keys)
}

// Dimensions returns the vector size.
func (x *Index) Dimensions() int {
	return x.dimensions
}

// Close releases the graph.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.closed = true
	x.graph = hnsw.NewGraph[uint64]()
	x.ids = nil
	x.keys = nil
	return nil
}

// normalise returns a unit-length copy of v. Zero vectors are copied unchanged.
func normalise(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)

	var sum float64
	for _, f := range out {
		sum += float64(f) * float64(f)
	}
	if sum == 0 {
		return out
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range out {
		out[i] *= inv
	}
	return out
}
