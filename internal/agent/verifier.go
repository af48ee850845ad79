package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aara-health/aara/internal/genai"
)

// Judge protocol tokens. The judge either approves a response or returns a
// replacement after the delimiter.
const (
	VerdictApproved         = "APPROVED"
	VerdictNeedsImprovement = "NEEDS_IMPROVEMENT"
	ImprovedDelimiter       = "IMPROVED_RESPONSE:"
)

const defaultVerificationPrompt = `You are a strict quality judge for a women's health and skincare assistant.
You receive a user's question and the assistant's draft response. Judge whether
the response actually addresses the user's intent.

If the response addresses the intent, reply with exactly:
APPROVED

If it does not, reply with:
NEEDS_IMPROVEMENT
IMPROVED_RESPONSE:
<the full improved response>

Never explain your verdict. Never change safety or crisis content.`

// Verifier is the post-generation judge. It may rewrite a response exactly
// once before delivery; every failure mode falls back to the input response
// unchanged, so verification is strictly best-effort.
type Verifier struct {
	genaiClient genai.ClientInterface
	templates   *TemplateStore
	disabled    bool
}

// NewVerifier creates a verifier. When disabled is true, Verify passes every
// response through untouched.
func NewVerifier(genaiClient genai.ClientInterface, templates *TemplateStore, disabled bool) *Verifier {
	return &Verifier{genaiClient: genaiClient, templates: templates, disabled: disabled}
}

// Verify judges the response against the original question and returns either
// the response unchanged or the judge's replacement text.
func (v *Verifier) Verify(ctx context.Context, question, response string) string {
	if v.disabled {
		return response
	}

	systemPrompt := v.templates.Get(VerificationPromptFile, defaultVerificationPrompt)
	userPrompt := "User question: " + question + "\n\nAssistant response:\n" + response
	verdict, err := v.genaiClient.GeneratePrompt(ctx, systemPrompt, userPrompt)
	if err != nil {
		slog.Warn("Verifier.Verify: judge call failed, keeping original response", "error", err)
		return response
	}

	improved, ok := parseVerdict(verdict)
	if !ok {
		return response
	}
	slog.Info("Verifier.Verify: response rewritten by judge", "original_length", len(response), "improved_length", len(improved))
	return improved
}

// parseVerdict extracts the replacement response from a NEEDS_IMPROVEMENT
// verdict. Any shape it does not recognize reports no replacement.
func parseVerdict(verdict string) (string, bool) {
	if !strings.Contains(verdict, VerdictNeedsImprovement) {
		return "", false
	}
	_, after, found := strings.Cut(verdict, ImprovedDelimiter)
	if !found {
		slog.Debug("Verifier.parseVerdict: verdict missing delimiter, ignoring", "verdict_length", len(verdict))
		return "", false
	}
	improved := stripCodeFences(strings.TrimSpace(after))
	if improved == "" {
		return "", false
	}
	return improved, true
}

// stripCodeFences removes surrounding triple-backtick markers the judge may
// wrap the replacement in.
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop an optional language tag on the opening fence.
	if idx := strings.Index(s, "\n"); idx >= 0 && !strings.ContainsAny(s[:idx], " \t") {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
