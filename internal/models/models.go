// Package models defines the shared data types for the Aara decision core:
// the conversation state threaded through the orchestrator graph, rule and
// tier definitions for the safety triage engine, and the JSON envelope types
// used by the HTTP API.
package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Node identifies a node in the orchestrator graph.
type Node string

const (
	NodeReasoning         Node = "reasoning"
	NodeRuleEngine        Node = "rule_engine"
	NodeSkincareTool      Node = "skincare_tool"
	NodeHealthAdviceTool  Node = "health_advice_tool"
	NodeSearchTool        Node = "search_tool"
	NodeProductSuggestion Node = "product_suggestion"
	NodeResponse          Node = "response"
)

// Tool identifies a domain tool behind the ToolRouter contract.
type Tool string

const (
	ToolSkincare          Tool = "skincare"
	ToolHealthAdvice      Tool = "health_advice"
	ToolSearch            Tool = "search"
	ToolProductSuggestion Tool = "product_suggestion"
)

// NodeForTool maps a tool identifier to its orchestrator node.
// Unknown tools map to the terminal response node so a bad redirect entry in
// a rule document cannot strand a request or re-enter the rule engine.
func NodeForTool(t Tool) Node {
	switch t {
	case ToolSkincare:
		return NodeSkincareTool
	case ToolHealthAdvice:
		return NodeHealthAdviceTool
	case ToolSearch:
		return NodeSearchTool
	case ToolProductSuggestion:
		return NodeProductSuggestion
	default:
		return NodeResponse
	}
}

// ResponseType tags how the final response should be synthesized when a
// generative step is required.
type ResponseType string

const (
	ResponseTypeNone     ResponseType = ""
	ResponseTypeGreeting ResponseType = "greeting"
	ResponseTypeCrisis   ResponseType = "crisis"
)

// Exchange is one user/assistant turn pair in the rolling chat history,
// oldest first.
type Exchange struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// Step is one entry in the append-only audit log a request accumulates while
// moving through the graph.
type Step struct {
	ID     string            `json:"id"`
	Node   Node              `json:"node"`
	Action string            `json:"action"`
	Detail map[string]string `json:"detail,omitempty"`
}

// ConversationState is the per-request state threaded through the
// orchestrator. Each request owns its own instance; nothing here is shared
// between requests. ResolvedTier records which rule tier produced
// FinalResponse; tier text is delivered verbatim, so it is exempt from the
// disclaimer heuristic.
type ConversationState struct {
	UserInput     string       `json:"user_input"`
	ChatHistory   []Exchange   `json:"chat_history"`
	Steps         []Step       `json:"intermediate_steps"`
	FinalResponse string       `json:"final_response,omitempty"`
	ResolvedTier  TierID       `json:"resolved_tier,omitempty"`
	NextNode      Node         `json:"next_node,omitempty"`
	UseLLM        bool         `json:"use_llm"`
	ResponseType  ResponseType `json:"response_type,omitempty"`
	RouteTo       Tool         `json:"route_to,omitempty"`
}

// NewConversationState builds the initial state for one orchestrator pass.
func NewConversationState(userInput string, history []Exchange) *ConversationState {
	return &ConversationState{
		UserInput:   userInput,
		ChatHistory: history,
		Steps:       make([]Step, 0, 4),
	}
}

// AddStep appends one audit entry tagged with a fresh identifier.
func (s *ConversationState) AddStep(node Node, action string, detail map[string]string) {
	s.Steps = append(s.Steps, Step{
		ID:     uuid.NewString(),
		Node:   node,
		Action: action,
		Detail: detail,
	})
}

// Resolved reports whether a terminal canned response has been set. A state
// with UseLLM set still needs the synthesizer even when FinalResponse is empty.
func (s *ConversationState) Resolved() bool {
	return s.FinalResponse != ""
}

// HistoryTail returns the last n exchanges, oldest first.
func (s *ConversationState) HistoryTail(n int) []Exchange {
	if n <= 0 || len(s.ChatHistory) <= n {
		return s.ChatHistory
	}
	return s.ChatHistory[len(s.ChatHistory)-n:]
}

// ChatRequest is the inbound payload for POST /chat.
type ChatRequest struct {
	UserInput   string     `json:"user_input"`
	ChatHistory []Exchange `json:"chat_history,omitempty"`
}

// Validate checks that the request carries a non-empty utterance.
func (r *ChatRequest) Validate() error {
	if strings.TrimSpace(r.UserInput) == "" {
		return fmt.Errorf("user_input is required")
	}
	return nil
}

// ChatResponse is the outbound payload for POST /chat.
type ChatResponse struct {
	FinalResponse string `json:"final_response"`
}
