package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driven"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptSystem: `You are an expert document analyst. Answer strictly from the document excerpts you are given. If the excerpts do not contain the answer, say so plainly instead of guessing.`,

	driven.PromptQuestionAnswer: `Context information from the document is below.
---------------------
%s
---------------------
Given the context information and not prior knowledge, answer the query.
Query: %s
Answer:`,

	driven.PromptSummaryMerge: `Several partial answers to the same query were produced from different parts of a document. They are below.
---------------------
%s
---------------------
Combine them into a single, coherent answer to the query. Remove repetition and keep every distinct fact.
Query: %s
Answer:`,
}

// placeholderCounts is the number of %s verbs each template must keep.
var placeholderCounts = map[string]int{
	driven.PromptSystem:         0,
	driven.PromptQuestionAnswer: 2,
	driven.PromptSummaryMerge:   2,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.pdfanalysis/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// A customised template that lost its format placeholders is ignored in
// favour of the embedded default.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	if want, ok := placeholderCounts[name]; ok && strings.Count(prompt, "%s") != want {
		logger.Warn("Prompt %q must contain %d %%s placeholders, using built-in default", name, want)
		prompt = defaultPrompts[name]
	}

	// Double-check so concurrent loads agree on one value.
	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Existing files are user edits and are never overwritten.
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# pdfanalysis prompts

These templates drive answer synthesis.

## Files

- ` + "`system.txt`" + ` - System prompt sent with every call
- ` + "`question_answer.txt`" + ` - Answers the query from retrieved excerpts (context, then query)
- ` + "`summary_merge.txt`" + ` - Merges partial answers in tree_summarize mode (answers, then query)

## Customisation

Edit any file to change the wording. Changes take effect on the next start.
Keep both ` + "`%s`" + ` placeholders in the two templates that have them;
a template with the wrong number of placeholders is ignored.
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("create prompt README: %w", err)
	}
	return nil
}
