// Package domain defines the core business entities for pdfanalysis.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Source: a PDF identified by its retrieval URL
//   - RawDocument: bytes fetched for a Source
//   - Document / Chunk: normalised text and its retrieval units
//   - Answer / BatchItem: results handed to the presentation layer
//   - FetchError, IndexBuildError, QueryProcessingError: typed failures
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
