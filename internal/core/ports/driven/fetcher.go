package driven

import (
	"context"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

// DocumentFetcher retrieves the raw bytes of a Source.
type DocumentFetcher interface {
	// Fetch downloads or reads the document identified by uri.
	// Failures are reported as *domain.FetchError.
	Fetch(ctx context.Context, uri string) (*domain.RawDocument, error)
}
