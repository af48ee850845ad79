package agent

import (
	"context"
	"log/slog"

	"github.com/aara-health/aara/internal/models"
	"github.com/aara-health/aara/internal/rules"
	"github.com/aara-health/aara/internal/tools"
)

// maxNodeHops bounds one orchestrator pass. The transition table has no
// cycles, so the bound can only be hit by a table bug; hitting it degrades to
// the generic fallback instead of looping.
const maxNodeHops = 8

// Orchestrator wires the reasoner, triage engine, domain tools, synthesizer,
// and verifier into one request pass. It holds no mutable cross-request
// state; each invocation operates on its own ConversationState.
type Orchestrator struct {
	reasoner    *Reasoner
	triage      *rules.Engine
	tools       *tools.Registry
	synthesizer *Synthesizer
	verifier    *Verifier
}

// NewOrchestrator assembles the request pipeline.
func NewOrchestrator(reasoner *Reasoner, triage *rules.Engine, registry *tools.Registry, synthesizer *Synthesizer, verifier *Verifier) *Orchestrator {
	return &Orchestrator{
		reasoner:    reasoner,
		triage:      triage,
		tools:       registry,
		synthesizer: synthesizer,
		verifier:    verifier,
	}
}

// Run executes one synchronous pass for a user utterance and returns the
// final response text. A pass always terminates at the response node; every
// failure inside the graph degrades to a fallback response rather than an
// error.
func (o *Orchestrator) Run(ctx context.Context, userInput string, history []models.Exchange) string {
	return o.RunState(ctx, userInput, history).FinalResponse
}

// RunState runs one pass and returns the full conversation state, including
// the audit log.
func (o *Orchestrator) RunState(ctx context.Context, userInput string, history []models.Exchange) *models.ConversationState {
	state := models.NewConversationState(userInput, history)
	node := models.NodeReasoning

	for hops := 0; hops < maxNodeHops; hops++ {
		slog.Debug("Orchestrator.Run: entering node", "node", string(node), "hops", hops)
		switch node {
		case models.NodeReasoning:
			o.reasoner.Classify(ctx, state)
			node = validateRoute(state.NextNode)

		case models.NodeRuleEngine:
			o.triage.Evaluate(state)
			node = o.nextAfterRules(state)

		case models.NodeSkincareTool:
			o.tools.Run(ctx, models.ToolSkincare, state)
			node = models.NodeProductSuggestion

		case models.NodeHealthAdviceTool:
			o.tools.Run(ctx, models.ToolHealthAdvice, state)
			node = models.NodeProductSuggestion

		case models.NodeSearchTool:
			o.tools.Run(ctx, models.ToolSearch, state)
			node = models.NodeProductSuggestion

		case models.NodeProductSuggestion:
			o.tools.Run(ctx, models.ToolProductSuggestion, state)
			node = models.NodeResponse

		case models.NodeResponse:
			o.synthesizer.Respond(ctx, state)
			state.FinalResponse = o.verifier.Verify(ctx, state.UserInput, state.FinalResponse)
			slog.Info("Orchestrator.Run: request completed", "response_type", string(state.ResponseType), "use_llm", state.UseLLM, "steps", len(state.Steps))
			return state

		default:
			slog.Error("Orchestrator.Run: unknown node, terminating at response", "node", string(node))
			node = models.NodeResponse
		}
	}

	slog.Error("Orchestrator.Run: node hop bound exceeded, returning fallback", "input_length", len(userInput))
	state.FinalResponse = rules.FallbackResponse
	return state
}

// validateRoute restricts the reasoner's output to nodes reachable from
// reasoning. Anything else routes to the rule engine.
func validateRoute(node models.Node) models.Node {
	switch node {
	case models.NodeRuleEngine, models.NodeSkincareTool, models.NodeHealthAdviceTool,
		models.NodeSearchTool, models.NodeProductSuggestion, models.NodeResponse:
		return node
	default:
		return models.NodeRuleEngine
	}
}

// nextAfterRules picks the node following triage. A resolved or
// LLM-designated state goes straight to response; a redirect goes to its
// tool; everything else falls through to response. The rule engine never
// routes back to itself or to reasoning, so the graph stays acyclic.
func (o *Orchestrator) nextAfterRules(state *models.ConversationState) models.Node {
	if state.Resolved() || state.UseLLM {
		return models.NodeResponse
	}
	if state.RouteTo != "" {
		return models.NodeForTool(state.RouteTo)
	}
	switch state.NextNode {
	case models.NodeSkincareTool, models.NodeHealthAdviceTool, models.NodeSearchTool, models.NodeProductSuggestion:
		return state.NextNode
	default:
		return models.NodeResponse
	}
}
