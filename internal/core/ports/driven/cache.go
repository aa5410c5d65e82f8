package driven

// Cache is a bounded key-value store used for indices and answers.
// Implementations must be safe for concurrent use.
type Cache[K comparable, V any] interface {
	// Get returns the value for key and whether it was present.
	Get(key K) (V, bool)

	// Add stores value under key, evicting according to the cache policy.
	Add(key K, value V)

	// Remove deletes key, reporting whether it was present.
	Remove(key K) bool

	// Keys returns the keys currently held.
	Keys() []K

	// Len returns the number of entries.
	Len() int

	// Purge removes every entry.
	Purge()
}
