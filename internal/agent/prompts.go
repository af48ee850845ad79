package agent

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Prompt template filenames under the prompts directory.
const (
	GreetingPromptFile       = "greeting_prompt.txt"
	CrisisPromptFile         = "crisis_prompt.txt"
	ConversationalPromptFile = "conversational_prompt.txt"
	VerificationPromptFile   = "verification_prompt.txt"
)

// TemplateStore loads prompt templates lazily and caches them for the
// process lifetime. A template that fails to load is cached as empty so the
// failure is logged once and callers fall back to their built-in default.
type TemplateStore struct {
	dir   string
	mu    sync.Mutex
	cache map[string]string
}

// NewTemplateStore creates a template store rooted at dir.
func NewTemplateStore(dir string) *TemplateStore {
	return &TemplateStore{dir: dir, cache: make(map[string]string)}
}

// Get returns the named template, or fallback when the file is missing or
// unreadable.
func (ts *TemplateStore) Get(name, fallback string) string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if cached, ok := ts.cache[name]; ok {
		if cached == "" {
			return fallback
		}
		return cached
	}

	data, err := os.ReadFile(filepath.Join(ts.dir, name))
	if err != nil {
		slog.Warn("TemplateStore.Get: failed to load prompt template, using built-in default", "name", name, "error", err)
		ts.cache[name] = ""
		return fallback
	}
	ts.cache[name] = string(data)
	slog.Debug("TemplateStore.Get: prompt template loaded", "name", name, "length", len(data))
	return string(data)
}
