package tools

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aara-health/aara/internal/models"
)

// SearchService is the web-search collaborator behind the search tool.
type SearchService interface {
	Search(ctx context.Context, query string) (string, error)
}

// searchFallback is the fixed apology used for any search failure; the raw
// error never reaches the user.
const searchFallback = "Sorry, I couldn't fetch real-time data right now. Please try again in a moment."

// SearchTool answers queries that need fresh information through the search
// service. A single failure degrades to the fixed fallback; there is no
// retry.
type SearchTool struct {
	service SearchService
}

// NewSearchTool creates the search tool.
func NewSearchTool(service SearchService) *SearchTool {
	return &SearchTool{service: service}
}

// Name implements Tool.
func (t *SearchTool) Name() models.Tool {
	return models.ToolSearch
}

// Run resolves the state with the search answer or the fixed fallback.
func (t *SearchTool) Run(ctx context.Context, state *models.ConversationState) {
	if t.service == nil {
		slog.Warn("SearchTool.Run: no search service configured")
		state.FinalResponse = searchFallback
		state.AddStep(models.NodeSearchTool, "search_unavailable", nil)
		return
	}

	answer, err := t.service.Search(ctx, state.UserInput)
	if err != nil || strings.TrimSpace(answer) == "" {
		slog.Warn("SearchTool.Run: search failed, using fallback", "error", err)
		state.FinalResponse = searchFallback
		state.AddStep(models.NodeSearchTool, "search_failed", nil)
		return
	}
	state.FinalResponse = answer
	state.AddStep(models.NodeSearchTool, "search_answered", map[string]string{"query": state.UserInput})
}
