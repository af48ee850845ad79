// Package models: rule and tier definitions for the safety triage engine.
package models

import "fmt"

// Rule is one trigger entry in a rule document. Exactly one of Response or
// Tool is expected to be set: Response terminates the request with canned
// text, Tool redirects it to a domain tool.
type Rule struct {
	Trigger  string `json:"trigger"`
	Response string `json:"response,omitempty"`
	Tool     Tool   `json:"tool,omitempty"`
}

// Validate checks that a rule is well formed enough to evaluate.
func (r Rule) Validate() error {
	if r.Trigger == "" {
		return fmt.Errorf("rule has empty trigger")
	}
	if r.Response == "" && r.Tool == "" {
		return fmt.Errorf("rule %q has neither response nor tool", r.Trigger)
	}
	return nil
}

// TierID names a priority bucket of rules. Tiers are evaluated strictly in
// the order listed in TierOrder; the first matching rule short-circuits.
type TierID string

const (
	TierEmergency           TierID = "emergency"
	TierCrisisResource      TierID = "crisis_resource"
	TierGeneralSafety       TierID = "general_safety"
	TierAgentInfo           TierID = "agent_info"
	TierPlatformInfo        TierID = "platform_info"
	TierCapability          TierID = "capability"
	TierConversationStarter TierID = "conversation_starter"
	TierHealthSafety        TierID = "health_safety"
	TierSkincareSafety      TierID = "skincare_safety"
	TierHealthRedirect      TierID = "health_redirect"
	TierSkincareRedirect    TierID = "skincare_redirect"
)

// TierOrder is the fixed evaluation priority. The crisis and greeting
// classifiers run between TierGeneralSafety and TierAgentInfo; that split is
// owned by the triage engine, not the catalog.
var TierOrder = []TierID{
	TierEmergency,
	TierCrisisResource,
	TierGeneralSafety,
	TierAgentInfo,
	TierPlatformInfo,
	TierCapability,
	TierConversationStarter,
	TierHealthSafety,
	TierSkincareSafety,
	TierHealthRedirect,
	TierSkincareRedirect,
}
