// Package agent implements the decision pipeline for one chat request: the
// reasoner that classifies intent into a tool route, the orchestrator state
// machine, the response synthesizer, and the post-generation verifier.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aara-health/aara/internal/genai"
	"github.com/aara-health/aara/internal/models"
)

// Keyword lexicons for deterministic intent routing. Lexicons are checked in
// fixed precedence (product > skincare > health > search) before the
// completion-service category is consulted at all.
var (
	productKeywords = []string{
		"suggest product", "recommend product", "suggest some product",
		"product suggestion", "product recommendation", "based on this",
		"show me product", "what product", "which product", "product for",
		"suggest something", "recommend something", "shopping", "buy",
	}
	skincareKeywords = []string{"skin", "skincare"}
	healthKeywords   = []string{"period", "menstrual", "pcos", "health"}
	searchKeywords   = []string{"search", "latest", "recent", "research"}
)

const reasoningPromptTemplate = `User input: %s
Chat history: %s

Analyze the user's intent. Is this about:
1. Skincare (skin type, routine, products)
2. Health advice (periods, PCOS, symptoms)
3. Need for web search (latest information, research)
4. Product suggestions (suggest products, recommend items, based on this)
5. General query that needs rule checking

Respond with just the category number.`

// Reasoner classifies a user utterance into the next orchestrator node.
type Reasoner struct {
	genaiClient genai.ClientInterface
}

// NewReasoner creates a reasoner backed by the given completion client.
func NewReasoner(genaiClient genai.ClientInterface) *Reasoner {
	return &Reasoner{genaiClient: genaiClient}
}

// Classify sets state.NextNode for the orchestrator and appends a reasoning
// audit step. The message is never dropped: any completion failure defaults
// the route to the rule engine.
func (r *Reasoner) Classify(ctx context.Context, state *models.ConversationState) {
	intent := r.classifyWithCompletion(ctx, state)
	state.AddStep(models.NodeReasoning, "intent_classified", map[string]string{"intent": intent})

	input := strings.ToLower(state.UserInput)
	switch {
	case containsAny(input, productKeywords):
		state.NextNode = models.NodeProductSuggestion
	case containsAny(input, skincareKeywords):
		state.NextNode = models.NodeSkincareTool
	case containsAny(input, healthKeywords):
		state.NextNode = models.NodeHealthAdviceTool
	case containsAny(input, searchKeywords):
		state.NextNode = models.NodeSearchTool
	default:
		state.NextNode = nodeForIntent(intent)
	}
	slog.Debug("Reasoner.Classify: route selected", "next_node", string(state.NextNode), "intent", intent)
}

// classifyWithCompletion asks the completion service for a single category
// digit. Failures degrade to the rule-engine category.
func (r *Reasoner) classifyWithCompletion(ctx context.Context, state *models.ConversationState) string {
	prompt := fmt.Sprintf(reasoningPromptTemplate, state.UserInput, formatHistory(state.HistoryTail(3)))
	intent, err := r.genaiClient.GeneratePrompt(ctx, "You are an intent classifier. Respond with a single digit.", prompt)
	if err != nil {
		slog.Warn("Reasoner.classifyWithCompletion: completion failed, defaulting to rule engine", "error", err)
		return "5"
	}
	return strings.TrimSpace(intent)
}

// nodeForIntent maps the classifier's digit to a node, in the same precedence
// order as the lexicons. Anything unrecognized routes to the rule engine.
func nodeForIntent(intent string) models.Node {
	switch {
	case strings.Contains(intent, "4"):
		return models.NodeProductSuggestion
	case strings.Contains(intent, "1"):
		return models.NodeSkincareTool
	case strings.Contains(intent, "2"):
		return models.NodeHealthAdviceTool
	case strings.Contains(intent, "3"):
		return models.NodeSearchTool
	default:
		return models.NodeRuleEngine
	}
}

func containsAny(input string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(input, kw) {
			return true
		}
	}
	return false
}

// formatHistory renders exchanges for inclusion in a prompt.
func formatHistory(history []models.Exchange) string {
	if len(history) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, ex := range history {
		fmt.Fprintf(&b, "User: %s\nAara: %s\n", ex.User, ex.Assistant)
	}
	return b.String()
}
