package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aara-health/aara/internal/genai"
	"github.com/aara-health/aara/internal/models"
)

// Disclaimer appended to medical responses. The idempotence check looks for
// DisclaimerMarker, so rewording the disclaimer requires keeping the marker
// phrase in it.
const (
	Disclaimer       = "\n\n_Consult a doctor for medical advice._"
	DisclaimerMarker = "consult a doctor"
)

// medicalKeywords trigger the disclaimer on the generic response path.
var medicalKeywords = []string{"diagnosis", "treatment", "medication", "symptom", "condition"}

// CrisisResourceLine is appended to any crisis response that does not already
// carry a crisis contact, so a crisis reply always includes a reachable
// resource no matter what the completion service produced.
const CrisisResourceLine = "\n\nIf you're in immediate danger, please call or text 988 (Suicide & Crisis Lifeline) or reach out to a trusted person near you. You don't have to go through this alone."

// Fixed fallbacks used when the completion service fails. Crisis keeps its
// resource contact even in the degraded path.
const (
	genericFallback  = "I apologize, but I'm having trouble processing your request right now. Please try again."
	greetingFallback = "Hello! I'm Aara, your health and skincare companion. How can I help you today?"
	crisisFallback   = "I'm really glad you reached out, and I'm concerned about what you're going through. Please call or text 988 (Suicide & Crisis Lifeline) right now, or dial your local emergency number. You matter, and help is available."
)

// Built-in system prompts, used when the template files are unavailable.
const (
	defaultConversationalPrompt = `You are Aara, an empathetic AI agent specializing in women's health and skincare.
Provide a helpful, accurate, and supportive response.
Be empathetic and non-judgmental.`

	defaultGreetingPrompt = `You are Aara, a warm and empathetic health and skincare companion.
The user has just greeted you. Reply with a short, personalized greeting and invite
them to share what they need help with. Do not give medical advice in a greeting.`

	defaultCrisisPrompt = `You are Aara, responding to a CRISIS SITUATION. The user has expressed
thoughts of self-harm or suicide. Respond with warmth and without judgment.
Acknowledge their pain, remind them they are not alone, and include the
988 Suicide & Crisis Lifeline (call or text 988). Keep the response short and
human. Never include product suggestions or disclaimers.`
)

// Synthesizer produces the final natural-language response for a request,
// selecting a prompt variant by response type and applying the disclaimer
// heuristic to generic responses.
type Synthesizer struct {
	genaiClient genai.ClientInterface
	templates   *TemplateStore
}

// NewSynthesizer creates a synthesizer with the given completion client and
// template store.
func NewSynthesizer(genaiClient genai.ClientInterface, templates *TemplateStore) *Synthesizer {
	return &Synthesizer{genaiClient: genaiClient, templates: templates}
}

// Respond fills state.FinalResponse. Rule-tier canned text passes through
// verbatim; a response resolved by a tool gets the disclaimer heuristic;
// otherwise a response is generated with the variant selected by
// state.ResponseType.
func (s *Synthesizer) Respond(ctx context.Context, state *models.ConversationState) {
	if state.Resolved() && !state.UseLLM {
		if state.ResolvedTier == "" {
			state.FinalResponse = s.applyDisclaimer(state.FinalResponse, state.UserInput)
		}
		return
	}

	switch state.ResponseType {
	case models.ResponseTypeGreeting:
		state.FinalResponse = s.generate(ctx, state, s.templates.Get(GreetingPromptFile, defaultGreetingPrompt), greetingFallback)
	case models.ResponseTypeCrisis:
		response := s.generate(ctx, state, s.templates.Get(CrisisPromptFile, defaultCrisisPrompt), crisisFallback)
		state.FinalResponse = ensureCrisisResources(response)
	default:
		response := s.generate(ctx, state, s.templates.Get(ConversationalPromptFile, defaultConversationalPrompt), genericFallback)
		state.FinalResponse = s.applyDisclaimer(response, state.UserInput)
	}
}

// generate calls the completion service with the variant's system prompt and
// the conversation context. Failures return the variant's fixed fallback.
func (s *Synthesizer) generate(ctx context.Context, state *models.ConversationState, systemPrompt, fallback string) string {
	userPrompt := fmt.Sprintf("User input: %s\nChat history: %s\nProcessing steps: %s",
		state.UserInput, formatHistory(state.HistoryTail(3)), formatSteps(state.Steps))

	response, err := s.genaiClient.GeneratePrompt(ctx, systemPrompt, userPrompt)
	if err != nil {
		slog.Warn("Synthesizer.generate: completion failed, using fixed fallback", "response_type", string(state.ResponseType), "error", err)
		return fallback
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return fallback
	}
	return response
}

// applyDisclaimer appends the medical disclaimer when the heuristic fires and
// the disclaimer is not already present. Appending twice never yields two
// copies.
func (s *Synthesizer) applyDisclaimer(response, userInput string) string {
	if !medicalKeywordsFire(response, userInput) {
		return response
	}
	if strings.Contains(strings.ToLower(response), DisclaimerMarker) {
		return response
	}
	return response + Disclaimer
}

// medicalKeywordsFire checks the response text and the user input for medical
// vocabulary.
func medicalKeywordsFire(response, userInput string) bool {
	combined := strings.ToLower(response + " " + userInput)
	for _, kw := range medicalKeywords {
		if strings.Contains(combined, kw) {
			return true
		}
	}
	return false
}

// ensureCrisisResources guarantees a crisis response carries a contact signal.
func ensureCrisisResources(response string) string {
	if strings.Contains(response, "988") {
		return response
	}
	return response + CrisisResourceLine
}

// formatSteps renders the audit log for prompt context.
func formatSteps(steps []models.Step) string {
	if len(steps) == 0 {
		return "(none)"
	}
	parts := make([]string, 0, len(steps))
	for _, step := range steps {
		parts = append(parts, fmt.Sprintf("%s:%s", step.Node, step.Action))
	}
	return strings.Join(parts, ", ")
}
