package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no normaliser handles a document's MIME type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answer synthesis is impossible without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Indices cannot be built or queried without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrDocumentTooLarge indicates a fetched document exceeds the size limit.
	ErrDocumentTooLarge = errors.New("document too large")

	// ErrTooManyPages indicates a PDF exceeds the page limit.
	ErrTooManyPages = errors.New("too many pages")

	// ErrEmptyDocument indicates no text could be extracted from a document.
	ErrEmptyDocument = errors.New("document has no extractable text")

	// ErrRateLimited indicates an inbound request was throttled.
	ErrRateLimited = errors.New("rate limited")
)

// FetchError reports that a Source could not be retrieved.
// StatusCode is set when the remote answered with a non-2xx status.
type FetchError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 && e.Err == nil {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IndexBuildError reports that no Index could be produced for a Source.
// The cause may itself be a *FetchError.
type IndexBuildError struct {
	Source string
	Err    error
}

func (e *IndexBuildError) Error() string {
	return fmt.Sprintf("build index for %s: %v", e.Source, e.Err)
}

func (e *IndexBuildError) Unwrap() error {
	return e.Err
}

// QueryProcessingError reports that a query against a Source failed,
// either while obtaining the Index or while running the query engine.
type QueryProcessingError struct {
	Source string
	Query  string
	Err    error
}

func (e *QueryProcessingError) Error() string {
	return fmt.Sprintf("answer %q for %s: %v", e.Query, e.Source, e.Err)
}

func (e *QueryProcessingError) Unwrap() error {
	return e.Err
}

// IsFetchFailure reports whether err was caused by a failed fetch.
func IsFetchFailure(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
