// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentFetcher: Retrieves the bytes of a Source
//   - IndexBuilder: Turns a fetched document into a queryable Index
//   - QueryEngine: Answers a question against an Index
//   - Cache: Bounded storage for indices and answers
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Without it, IndexBuilder and QueryEngine fail with ErrEmbeddingUnavailable.
//   - LLMService: Without it, QueryEngine fails with ErrLLMUnavailable.
//   - SourceWatcher: Without it, local file sources are never invalidated on change.
//   - PromptStore: Without it, built-in prompt templates are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, normaliser or postprocessor package
package driven
