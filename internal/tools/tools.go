// Package tools implements the domain tools behind the ToolRouter contract:
// skincare advice, women's health advice, web search, and product
// suggestions. Every tool is a pure state transformer that either resolves
// the request with a final response plus one audit step, or leaves the state
// untouched for downstream nodes. Tools never return errors; internal
// failures degrade to a clarifying question or a fixed apology.
package tools

import (
	"context"
	"log/slog"

	"github.com/aara-health/aara/internal/models"
)

// Tool is the contract every domain tool satisfies.
type Tool interface {
	// Name returns the tool's identifier.
	Name() models.Tool
	// Run transforms the state. Implementations must not fail: they either
	// set FinalResponse and append one audit step, or leave the chain
	// unresolved.
	Run(ctx context.Context, state *models.ConversationState)
}

// Registry associates tool identifiers with implementations. It is populated
// at startup and read-only afterwards.
type Registry struct {
	tools map[models.Tool]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[models.Tool]Tool)}
}

// Register associates a tool identifier with an implementation.
func (r *Registry) Register(t Tool) {
	r.tools[t.Name()] = t
}

// Get retrieves the tool for an identifier.
func (r *Registry) Get(id models.Tool) (Tool, bool) {
	t, ok := r.tools[id]
	return t, ok
}

// Run dispatches to the named tool. A missing registration is logged and the
// state passes through unchanged, keeping the never-fail tool contract at
// the router level too.
func (r *Registry) Run(ctx context.Context, id models.Tool, state *models.ConversationState) {
	t, ok := r.Get(id)
	if !ok {
		slog.Error("Registry.Run: no tool registered", "tool", string(id))
		return
	}
	slog.Debug("Registry.Run: dispatching", "tool", string(id))
	t.Run(ctx, state)
}
