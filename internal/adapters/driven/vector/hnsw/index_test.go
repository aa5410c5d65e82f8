package hnsw

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)

	idx, err := New(3, WithEfSearch(50))
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Dimensions())
	assert.Equal(t, 50, idx.graph.EfSearch)
	assert.Zero(t, idx.Len())
}

func TestSearch_OrdersBySimilarity(t *testing.T) {
	idx, err := New(3)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx,
		[]string{"x", "y", "z", "xy"},
		[][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 0}},
	))
	assert.Equal(t, 4, idx.Len())

	hits, err := idx.Search(ctx, []float32{2, 0.1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "x", hits[0].ChunkID)
	assert.Equal(t, "xy", hits[1].ChunkID)
	assert.Greater(t, hits[0].Similarity, hits[1].Similarity)
	assert.InDelta(t, 0.99, hits[0].Similarity, 0.01)
}

func TestSearch_KLargerThanIndex(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)
	require.NoError(t, idx.Add(context.Background(), []string{"a"}, [][]float32{{1, 0}}))

	hits, err := idx.Search(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ChunkID)
}

func TestSearch_Empty(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)

	hits, err := idx.Search(context.Background(), []float32{1, 0}, 3)
	assert.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = idx.Search(context.Background(), []float32{1, 0}, 0)
	assert.NoError(t, err)
	assert.Empty(t, hits)
}

func TestAdd_ReplacesExistingID(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, []string{"a", "b"}, [][]float32{{1, 0}, {0, 1}}))
	require.NoError(t, idx.Add(ctx, []string{"a"}, [][]float32{{0, 1}}))
	assert.Equal(t, 2, idx.Len())

	hits, err := idx.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.InDelta(t, 0, h.Similarity, 1e-6, "old vector for %s must not be returned", h.ChunkID)
	}
}

func TestDimensionMismatch(t *testing.T) {
	idx, err := New(3)
	require.NoError(t, err)

	err = idx.Add(context.Background(), []string{"a"}, [][]float32{{1, 2}})
	var dimErr DimensionError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Got)

	_, err = idx.Search(context.Background(), []float32{1}, 1)
	assert.ErrorAs(t, err, &dimErr)

	err = idx.Add(context.Background(), []string{"a", "b"}, [][]float32{{1, 2, 3}})
	assert.ErrorContains(t, err, "length mismatch")
}

func TestClose(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	assert.ErrorIs(t, idx.Add(context.Background(), []string{"a"}, [][]float32{{1, 0}}), ErrClosed)
	_, err = idx.Search(context.Background(), []float32{1, 0}, 1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSearch_ManyVectors(t *testing.T) {
	idx, err := New(8)
	require.NoError(t, err)
	ctx := context.Background()

	var ids []string
	var vecs [][]float32
	for i := 0; i < 200; i++ {
		v := make([]float32, 8)
		v[i%8] = 1
		v[(i+1)%8] = float32(i) / 200
		ids = append(ids, fmt.Sprintf("c%d", i))
		vecs = append(vecs, v)
	}
	require.NoError(t, idx.Add(ctx, ids, vecs))

	hits, err := idx.Search(ctx, vecs[42], 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "c42", hits[0].ChunkID)
}

func TestNormalise(t *testing.T) {
	v := []float32{3, 4}
	n := normalise(v)
	assert.InDelta(t, 0.6, n[0], 1e-6)
	assert.InDelta(t, 0.8, n[1], 1e-6)
	assert.Equal(t, []float32{3, 4}, v, "input must not be modified")

	assert.Equal(t, []float32{0, 0}, normalise([]float32{0, 0}))
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.VectorIndex = (*Index)(nil)
}
