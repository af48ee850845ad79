package tools

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aara-health/aara/internal/models"
	"github.com/aara-health/aara/internal/products"
)

// Suppression vocabularies: product suggestions are never attached to
// emergency or crisis conversations, nor when the user opts out, regardless
// of any other matched context.
var (
	suppressionKeywords = []string{"emergency", "crisis", "severe pain", "heavy bleeding", "suicide", "self harm"}
	optOutPhrases       = []string{"no products", "no recommendations", "no shopping"}
)

// maxSuggestions bounds how many products one response may carry.
const maxSuggestions = 2

// ProductSuggestionTool appends scored product suggestions to the response
// when the conversation context supports them. It never replaces an existing
// response; it only extends or sets one.
type ProductSuggestionTool struct {
	catalog *products.Catalog
}

// NewProductSuggestionTool creates the suggestion tool over a loaded catalog.
func NewProductSuggestionTool(catalog *products.Catalog) *ProductSuggestionTool {
	return &ProductSuggestionTool{catalog: catalog}
}

// Name implements Tool.
func (t *ProductSuggestionTool) Name() models.Tool {
	return models.ToolProductSuggestion
}

// Run attaches suggestions when appropriate and otherwise leaves the state
// untouched for the response node.
func (t *ProductSuggestionTool) Run(_ context.Context, state *models.ConversationState) {
	input := strings.ToLower(state.UserInput)
	if containsAnyPhrase(input, suppressionKeywords) {
		slog.Debug("ProductSuggestionTool.Run: suppressed by emergency vocabulary")
		return
	}
	if containsAnyPhrase(input, optOutPhrases) {
		slog.Debug("ProductSuggestionTool.Run: suppressed by opt-out phrase")
		return
	}

	context := products.AnalyzeContext(state.UserInput, state.ChatHistory)
	if context.Empty() {
		return
	}
	relevant := t.catalog.Relevant(context, maxSuggestions)
	if len(relevant) == 0 {
		return
	}

	suggestions := products.FormatSuggestions(relevant, t.catalog.Disclaimer())
	if state.FinalResponse != "" {
		state.FinalResponse += suggestions
	} else {
		state.FinalResponse = strings.TrimSpace(suggestions)
	}

	names := make([]string, 0, len(relevant))
	for _, p := range relevant {
		names = append(names, p.Name)
	}
	state.AddStep(models.NodeProductSuggestion, "products_suggested", map[string]string{
		"products":  strings.Join(names, ","),
		"skin_type": context.SkinType,
	})
}

func containsAnyPhrase(input string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(input, phrase) {
			return true
		}
	}
	return false
}
