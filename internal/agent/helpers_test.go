package agent

import (
	"context"
	"testing"

	"github.com/openai/openai-go"
)

// fakeGenAIClient implements genai.ClientInterface for tests. When respond
// is set it overrides the fixed response/err pair.
type fakeGenAIClient struct {
	response string
	err      error
	respond  func(systemPrompt, userPrompt string) (string, error)

	calls      int
	lastSystem string
	lastUser   string
}

func (f *fakeGenAIClient) GeneratePrompt(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	if f.respond != nil {
		return f.respond(systemPrompt, userPrompt)
	}
	return f.response, f.err
}

func (f *fakeGenAIClient) GenerateWithMessages(ctx context.Context, _ []openai.ChatCompletionMessageParamUnion) (string, error) {
	f.calls++
	if f.respond != nil {
		return f.respond("", "")
	}
	return f.response, f.err
}

// emptyTemplates returns a template store over an empty directory so every
// lookup falls back to the built-in defaults.
func emptyTemplates(t *testing.T) *TemplateStore {
	t.Helper()
	return NewTemplateStore(t.TempDir())
}
