// Package cached wraps an EmbeddingService with an in-memory LRU so that
// repeated queries and re-indexed documents skip the remote call.
package cached

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driven"
)

// DefaultCacheSize is the number of embeddings kept.
// At 1536 dimensions that is roughly 25MB.
const DefaultCacheSize = 4096

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService caches the vectors produced by an inner service.
type EmbeddingService struct {
	inner driven.EmbeddingService
	cache *lru.Cache[string, []float32]
}

// New wraps inner with a cache of cacheSize entries.
func New(inner driven.EmbeddingService, cacheSize int) *EmbeddingService {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, _ := lru.New[string, []float32](cacheSize)
	return &EmbeddingService{
		inner: inner,
		cache: cache,
	}
}

// cacheKey binds the text to the model so a model change never reuses vectors.
func (s *EmbeddingService) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(s.inner.ModelName() + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// Embed returns the cached vector or computes and caches it.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	key := s.cacheKey(text)
	if vec, ok := s.cache.Get(key); ok {
		return vec, nil
	}

	vec, err := s.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, vec)
	return vec, nil
}

// EmbedBatch embeds only the texts missing from the cache, in one inner call.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float32, len(texts))
	var missing []int
	var missingTexts []string
	for i, text := range texts {
		if vec, ok := s.cache.Get(s.cacheKey(text)); ok {
			results[i] = vec
			continue
		}
		missing = append(missing, i)
		missingTexts = append(missingTexts, text)
	}

	if len(missingTexts) == 0 {
		return results, nil
	}

	vecs, err := s.inner.EmbedBatch(ctx, missingTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missingTexts) {
		return nil, fmt.Errorf("embed batch: got %d vectors for %d texts", len(vecs), len(missingTexts))
	}

	for j, i := range missing {
		results[i] = vecs[j]
		s.cache.Add(s.cacheKey(texts[i]), vecs[j])
	}
	return results, nil
}

// Len returns the number of cached vectors.
func (s *EmbeddingService) Len() int {
	return s.cache.Len()
}

// Dimensions returns the inner service's vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the inner service's model.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping checks the inner service.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close closes the inner service and drops the cache.
func (s *EmbeddingService) Close() error {
	s.cache.Purge()
	return s.inner.Close()
}
