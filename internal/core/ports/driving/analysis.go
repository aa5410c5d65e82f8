package driving

import (
	"context"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

// AnalysisService answers questions about PDF documents.
type AnalysisService interface {
	// AnswerQuery returns the answer to query against source.
	// When useCache is false the answer cache is neither read nor written,
	// but an existing index is still reused.
	AnswerQuery(ctx context.Context, source, query string, useCache bool) (*domain.Answer, error)

	// BatchAnswerQueries answers query against every source in order.
	// Failures are recorded per item and never abort the batch.
	BatchAnswerQueries(ctx context.Context, sources []string, query string) ([]domain.BatchItem, error)

	// Invalidate drops the cached index of source and every answer derived from it.
	Invalidate(source string)

	// Stats reports cache occupancy.
	Stats() domain.CacheStats
}
