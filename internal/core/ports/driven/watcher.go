package driven

// SourceWatcher observes local file sources for changes.
type SourceWatcher interface {
	// Watch starts observing the file behind source. Remote sources are ignored.
	Watch(source string) error

	// Unwatch stops observing source.
	Unwatch(source string) error

	// Close releases resources.
	Close() error
}
