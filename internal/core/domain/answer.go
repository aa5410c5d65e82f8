package domain

// DefaultQuery is the analysis request used when the user does not type one.
const DefaultQuery = "Analyze this document and provide a detailed summary."

// CacheKey identifies an answer for a (source, query) pair.
func CacheKey(source, query string) string {
	return source + ":" + query
}

// Answer is the synthesised response to one query against one Source.
type Answer struct {
	// Source is the PDF the answer was computed from.
	Source string

	// Query is the question text.
	Query string

	// Text is the synthesised answer.
	Text string

	// FromCache is true when the answer cache served the request.
	FromCache bool
}

// BatchStatus tags the outcome of one batch item.
type BatchStatus string

// Batch item outcomes.
const (
	BatchStatusSuccess BatchStatus = "success"
	BatchStatusError   BatchStatus = "error"
)

// BatchItem records the outcome for one Source in a batch run.
// Result holds the answer on success and a human-readable error otherwise.
type BatchItem struct {
	Source    string      `json:"url"`
	Status    BatchStatus `json:"status"`
	Result    string      `json:"result"`
	FromCache bool        `json:"from_cache,omitempty"`
}

// OK returns true for successful items.
func (b BatchItem) OK() bool {
	return b.Status == BatchStatusSuccess
}

// CountFailures returns the number of items with an error outcome.
func CountFailures(items []BatchItem) int {
	n := 0
	for _, item := range items {
		if !item.OK() {
			n++
		}
	}
	return n
}

// CacheStats reports cache occupancy.
type CacheStats struct {
	Indexes int `json:"indexes"`
	Answers int `json:"answers"`
}
