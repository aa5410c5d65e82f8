package web

import (
	"errors"
	"net/http"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

// statusFor maps an analysis failure to an HTTP status code.
func statusFor(err error) int {
	var fetchErr *domain.FetchError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrDocumentTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrTooManyPages), errors.Is(err, domain.ErrEmptyDocument):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrLLMUnavailable), errors.Is(err, domain.ErrEmbeddingUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
