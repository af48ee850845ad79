package products

import (
	"strings"

	"github.com/aara-health/aara/internal/models"
)

// Context is the product-suggestion context extracted from the current input
// and the tail of the conversation.
type Context struct {
	SkinType          string
	SkinConcerns      []string
	HealthConcerns    []string
	MentionedProducts []string
	BudgetIndicators  []string
}

// Empty reports whether no signal was extracted at all; with an empty
// context the suggestion tool stays silent.
func (c Context) Empty() bool {
	return c.SkinType == "" && len(c.SkinConcerns) == 0 && len(c.HealthConcerns) == 0 && len(c.MentionedProducts) == 0
}

var (
	contextSkinTypes = []string{"oily", "dry", "combination", "sensitive", "acne-prone", "mature"}
	contextConcerns  = []string{"acne", "wrinkles", "dark spots", "hyperpigmentation", "redness", "dryness", "oiliness", "sensitivity", "aging", "pores"}
	healthConcerns   = []string{"pcos", "irregular periods", "heavy periods", "cramps", "pms", "iron deficiency", "fatigue", "hormonal imbalance"}
	productMentions  = []string{"cleanser", "moisturizer", "serum", "sunscreen", "supplement", "vitamin"}
	budgetKeywords   = []string{"affordable", "cheap", "expensive", "budget", "drugstore", "high-end"}
)

// historyWindow is how many trailing exchanges contribute context.
const historyWindow = 3

// AnalyzeContext extracts suggestion context from the current input and the
// last few exchanges. Assistant turns are parsed too: a skin-type
// determination embedded in an earlier reply ("For oily skin: ...") carries
// over when the current input names no skin type.
func AnalyzeContext(userInput string, history []models.Exchange) Context {
	var context Context
	input := strings.ToLower(userInput)

	context.SkinType = extractSkinType(input)
	for _, concern := range contextConcerns {
		if strings.Contains(input, concern) {
			context.SkinConcerns = append(context.SkinConcerns, concern)
		}
	}
	for _, concern := range healthConcerns {
		if strings.Contains(input, concern) {
			context.HealthConcerns = append(context.HealthConcerns, strings.ReplaceAll(concern, " ", "_"))
		}
	}

	start := len(history) - historyWindow
	if start < 0 {
		start = 0
	}
	for _, exchange := range history[start:] {
		userMsg := strings.ToLower(exchange.User)
		assistantMsg := strings.ToLower(exchange.Assistant)

		for _, kw := range productMentions {
			if strings.Contains(userMsg, kw) {
				context.MentionedProducts = appendUnique(context.MentionedProducts, kw)
			}
		}
		for _, kw := range budgetKeywords {
			if strings.Contains(userMsg, kw) {
				context.BudgetIndicators = appendUnique(context.BudgetIndicators, kw)
			}
		}
		if context.SkinType == "" {
			if st := skinTypeFromReply(assistantMsg); st != "" {
				context.SkinType = st
			} else if st := extractSkinType(userMsg); st != "" {
				context.SkinType = st
			}
		}
	}
	return context
}

// extractSkinType finds the first named skin type, accepting both the
// hyphenated and collapsed spellings of compound types.
func extractSkinType(input string) string {
	for _, skinType := range contextSkinTypes {
		spaced := strings.ReplaceAll(skinType, "-", " ")
		collapsed := strings.ReplaceAll(skinType, "-", "")
		if strings.Contains(input, skinType) || strings.Contains(input, spaced) || strings.Contains(input, collapsed) {
			return strings.ReplaceAll(skinType, "-", "_")
		}
	}
	return ""
}

// skinTypeFromReply detects a skin-type determination in an assistant turn,
// e.g. the routine openers "For oily skin:" or "your skin type is dry".
func skinTypeFromReply(assistantMsg string) string {
	if assistantMsg == "" {
		return ""
	}
	for _, skinType := range contextSkinTypes {
		name := strings.ReplaceAll(skinType, "-", " ")
		if strings.Contains(assistantMsg, name+" skin") || strings.Contains(assistantMsg, "skin type is "+name) {
			return strings.ReplaceAll(skinType, "-", "_")
		}
	}
	return ""
}

func appendUnique(values []string, v string) []string {
	for _, existing := range values {
		if existing == v {
			return values
		}
	}
	return append(values, v)
}
