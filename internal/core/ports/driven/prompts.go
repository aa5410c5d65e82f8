package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptQuestionAnswer answers a query from retrieved context.
	// The template expects %s (context) then %s (query).
	PromptQuestionAnswer = "question_answer"

	// PromptSummaryMerge merges partial answers during tree summarisation.
	// The template expects %s (partial answers) then %s (query).
	PromptSummaryMerge = "summary_merge"

	// PromptSystem is the system prompt for every synthesis call.
	// This prompt has no format placeholders.
	PromptSystem = "system"
)
