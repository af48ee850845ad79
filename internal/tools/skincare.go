package tools

import (
	"context"
	"strings"

	"github.com/aara-health/aara/internal/models"
)

// skinRoutines maps skin type to concern-specific routine text. Lookup
// specificity: concern-specific entry > skin-type basic entry > generic
// sensitive-skin advice.
var skinRoutines = map[string]map[string]string{
	"oily": {
		"basic":      "For oily skin: Use a gentle foaming cleanser twice daily, apply an oil-free moisturizer, and use non-comedogenic sunscreen. Avoid heavy creams and over-cleansing.",
		"acne_prone": "For oily, acne-prone skin: Use a salicylic acid cleanser, apply a lightweight, oil-free moisturizer, use non-comedogenic sunscreen, and consider a retinoid treatment (consult a dermatologist first).",
		"sensitive":  "For oily, sensitive skin: Use a gentle, fragrance-free cleanser, apply a lightweight, hypoallergenic moisturizer, and use mineral sunscreen.",
	},
	"dry": {
		"basic":     "For dry skin: Use a hydrating cleanser, apply a rich moisturizer while skin is still damp, and use sunscreen daily. Avoid harsh exfoliants and hot water.",
		"mature":    "For dry, mature skin: Use a gentle, hydrating cleanser, apply a rich moisturizer with ceramides or hyaluronic acid, use sunscreen daily, and consider a gentle retinol product.",
		"sensitive": "For dry, sensitive skin: Use a fragrance-free, gentle cleanser, apply a rich, hypoallergenic moisturizer, and use mineral sunscreen.",
	},
	"combination": {
		"basic":      "For combination skin: Use a gentle cleanser, apply lightweight moisturizer to your whole face, and use different products for oily and dry areas as needed. Use sunscreen daily.",
		"acne_prone": "For combination, acne-prone skin: Use a gentle cleanser with salicylic acid, apply different moisturizers to oily and dry zones, and use non-comedogenic sunscreen.",
	},
	"sensitive": {
		"basic":    "For sensitive skin: Use fragrance-free, gentle products. Patch test new products first. Use a mild cleanser and hypoallergenic moisturizer.",
		"reactive": "For very sensitive/reactive skin: Use minimal products - gentle cleanser, simple moisturizer, and mineral sunscreen. Introduce new products one at a time.",
	},
	"acne": {
		"mild":     "For mild acne: Use a gentle cleanser with salicylic acid, apply oil-free moisturizer, use non-comedogenic sunscreen, and avoid over-washing.",
		"moderate": "For moderate acne: Consider a cleanser with benzoyl peroxide or salicylic acid, use oil-free moisturizer, non-comedogenic sunscreen, and consult a dermatologist for treatment options.",
	},
}

var skinTypes = []string{"oily", "dry", "combination", "sensitive", "acne"}

var concernKeywords = map[string][]string{
	"acne":         {"acne", "breakouts", "pimples", "spots"},
	"aging":        {"wrinkles", "fine lines", "aging", "mature"},
	"sensitivity":  {"sensitive", "reactive", "irritation"},
	"pigmentation": {"dark spots", "pigmentation", "melasma"},
}

// SkincareTool provides personalized skincare routines keyed on skin type
// and concerns extracted from the utterance.
type SkincareTool struct{}

// NewSkincareTool creates the skincare advice tool.
func NewSkincareTool() *SkincareTool {
	return &SkincareTool{}
}

// Name implements Tool.
func (t *SkincareTool) Name() models.Tool {
	return models.ToolSkincare
}

// Run resolves the state with a routine when a skin type is identifiable,
// and with a clarifying question otherwise.
func (t *SkincareTool) Run(_ context.Context, state *models.ConversationState) {
	input := strings.ToLower(state.UserInput)
	skinType := identifySkinType(input)
	concerns := identifyConcerns(input)

	if skinType == "" {
		state.FinalResponse = clarificationQuestion(input)
		state.AddStep(models.NodeSkincareTool, "clarification_requested", nil)
		return
	}

	response := personalizedRoutine(skinType, concerns)
	if tips := personalizedTips(skinType, concerns); tips != "" {
		response += "\n\n**Additional Tips:** " + tips
	}
	state.FinalResponse = response
	state.AddStep(models.NodeSkincareTool, "routine_provided", map[string]string{
		"skin_type": skinType,
		"concerns":  strings.Join(concerns, ","),
	})
}

func identifySkinType(input string) string {
	for _, skinType := range skinTypes {
		if strings.Contains(input, skinType) {
			return skinType
		}
	}
	return ""
}

func identifyConcerns(input string) []string {
	var concerns []string
	// Fixed iteration order keeps audit output deterministic.
	for _, concern := range []string{"acne", "aging", "sensitivity", "pigmentation"} {
		for _, kw := range concernKeywords[concern] {
			if strings.Contains(input, kw) {
				concerns = append(concerns, concern)
				break
			}
		}
	}
	return concerns
}

// personalizedRoutine picks the most specific routine for the skin type:
// a concern-matched entry beats the type's basic entry, which beats the
// generic fallback.
func personalizedRoutine(skinType string, concerns []string) string {
	routines, ok := skinRoutines[skinType]
	if !ok {
		return skinRoutines["sensitive"]["basic"]
	}
	for _, concern := range concerns {
		switch {
		case concern == "acne" && routines["acne_prone"] != "":
			return routines["acne_prone"]
		case concern == "sensitivity" && routines["sensitive"] != "":
			return routines["sensitive"]
		case concern == "sensitivity" && routines["reactive"] != "":
			return routines["reactive"]
		case concern == "aging" && routines["mature"] != "":
			return routines["mature"]
		}
	}
	if routine := routines["basic"]; routine != "" {
		return routine
	}
	// The acne type has no basic entry; start with the mild routine.
	if routine := routines["mild"]; routine != "" {
		return routine
	}
	return skinRoutines["sensitive"]["basic"]
}

func personalizedTips(skinType string, concerns []string) string {
	var tips []string
	if contains(concerns, "acne") {
		tips = append(tips, "Change pillowcases frequently and avoid touching your face.")
	}
	if skinType == "dry" {
		tips = append(tips, "Use a humidifier in dry environments and drink plenty of water.")
	}
	if contains(concerns, "aging") {
		tips = append(tips, "Consistency is key - use products regularly for best results.")
	}
	return strings.Join(tips, " ")
}

func clarificationQuestion(input string) string {
	if strings.Contains(input, "routine") {
		return "To recommend the best skincare routine, could you tell me: What's your skin type (oily, dry, combination, or sensitive)? Do you have any specific concerns like acne, aging, or sensitivity?"
	}
	return "To provide the best skincare advice, could you please specify your skin type? For example: oily, dry, combination, sensitive, or acne-prone skin. Also, let me know if you have any specific concerns!"
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
