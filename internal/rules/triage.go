package rules

import (
	"log/slog"
	"strings"

	"github.com/aara-health/aara/internal/models"
)

// FallbackResponse is the generic supportive reply used whenever triage
// cannot complete safely. The safety path never surfaces an internal failure
// to the user.
const FallbackResponse = "I'm here to help with your health and skincare questions. How can I assist you today?"

// crisisExcludedTriggers removes specific emergency triggers from tier-1
// matching so that self-harm language falls through to the dedicated crisis
// classifier instead of a generic canned reply.
var crisisExcludedTriggers = map[string]struct{}{
	"suicide":     {},
	"kill myself": {},
	"end my life": {},
	"want to die": {},
}

// Engine evaluates the rule catalog and the greeting/crisis classifiers in
// strict priority order. It holds no per-request state.
type Engine struct {
	provider *Provider
}

// NewEngine creates a triage engine backed by the given catalog provider.
func NewEngine(provider *Provider) *Engine {
	return &Engine{provider: provider}
}

// Evaluate runs safety triage over the state's user input. Exactly one of
// the following happens: a terminal FinalResponse is set; ResponseType is set
// with UseLLM; RouteTo is set; or the state passes through unmutated.
//
// Any panic inside evaluation is converted into the generic fallback
// response; raw errors never leave the safety path.
func (e *Engine) Evaluate(state *models.ConversationState) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Engine.Evaluate: recovered from rule evaluation failure", "panic", r)
			state.FinalResponse = FallbackResponse
		}
	}()

	input := strings.ToLower(strings.TrimSpace(state.UserInput))
	if input == "" {
		return
	}
	catalog := e.provider.Catalog()

	// Emergency tier first, skipping triggers owned by the crisis classifier.
	for _, rule := range catalog.Tier(models.TierEmergency) {
		trigger := strings.ToLower(rule.Trigger)
		if _, excluded := crisisExcludedTriggers[trigger]; excluded {
			continue
		}
		if strings.Contains(input, trigger) {
			e.resolve(state, models.TierEmergency, rule)
			return
		}
	}
	for _, id := range []models.TierID{models.TierCrisisResource, models.TierGeneralSafety} {
		if rule, ok := matchTier(catalog, id, input); ok {
			e.resolve(state, id, rule)
			return
		}
	}

	// Crisis and greeting classifiers sit between the safety tiers and the
	// informational tiers; both route to the synthesizer rather than canned text.
	if IsCrisis(state.UserInput) {
		slog.Info("Engine.Evaluate: crisis language detected, routing to crisis synthesis")
		state.ResponseType = models.ResponseTypeCrisis
		state.UseLLM = true
		state.AddStep(models.NodeRuleEngine, "crisis_detected", nil)
		return
	}
	if IsGreeting(state.UserInput) {
		slog.Debug("Engine.Evaluate: greeting detected, routing to greeting synthesis")
		state.ResponseType = models.ResponseTypeGreeting
		state.UseLLM = true
		state.AddStep(models.NodeRuleEngine, "greeting_detected", nil)
		return
	}

	for _, id := range []models.TierID{
		models.TierAgentInfo,
		models.TierPlatformInfo,
		models.TierCapability,
		models.TierConversationStarter,
		models.TierHealthSafety,
		models.TierSkincareSafety,
	} {
		if rule, ok := matchTier(catalog, id, input); ok {
			e.resolve(state, id, rule)
			return
		}
	}

	for _, id := range []models.TierID{models.TierHealthRedirect, models.TierSkincareRedirect} {
		if rule, ok := matchTier(catalog, id, input); ok {
			slog.Debug("Engine.Evaluate: redirect rule matched", "tier", string(id), "tool", string(rule.Tool))
			state.RouteTo = rule.Tool
			state.AddStep(models.NodeRuleEngine, "redirect", map[string]string{
				"tier": string(id),
				"tool": string(rule.Tool),
			})
			return
		}
	}

	// No match: pass through with no mutation.
}

// matchTier returns the first rule in the tier whose trigger is contained in
// the normalized input.
func matchTier(catalog *Catalog, id models.TierID, input string) (models.Rule, bool) {
	for _, rule := range catalog.Tier(id) {
		if strings.Contains(input, strings.ToLower(rule.Trigger)) {
			return rule, true
		}
	}
	return models.Rule{}, false
}

// resolve terminates triage with the rule's canned response.
func (e *Engine) resolve(state *models.ConversationState, id models.TierID, rule models.Rule) {
	slog.Debug("Engine.Evaluate: rule matched", "tier", string(id), "trigger", rule.Trigger)
	state.FinalResponse = rule.Response
	state.ResolvedTier = id
	state.AddStep(models.NodeRuleEngine, "rule_match", map[string]string{
		"tier":    string(id),
		"trigger": rule.Trigger,
	})
}
