package analyse

import "errors"

// Error definitions for the analyse view.
var (
	// ErrNoAnalysisService indicates that no analysis service was provided.
	ErrNoAnalysisService = errors.New("analysis service is required")
)
