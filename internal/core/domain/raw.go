package domain

// RawDocument represents the bytes fetched for a Source.
// It is the fetcher's output before normalisation.
type RawDocument struct {
	// URI is the Source identifier the bytes came from.
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// LocalPath is the staged on-disk copy of Content, when one exists.
	// Normalisers that need a file read it instead of Content.
	LocalPath string

	// Metadata contains fetcher-specific key-value pairs.
	Metadata map[string]any
}

// Size returns the number of content bytes.
func (r *RawDocument) Size() int {
	if r == nil {
		return 0
	}
	return len(r.Content)
}
