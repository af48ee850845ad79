package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/aara-health/aara/internal/models"
)

type stubSearchService struct {
	answer string
	err    error
	query  string
}

func (s *stubSearchService) Search(_ context.Context, query string) (string, error) {
	s.query = query
	return s.answer, s.err
}

func TestSearchToolAnswer(t *testing.T) {
	service := &stubSearchService{answer: "fresh answer"}
	state := models.NewConversationState("latest skincare research", nil)
	NewSearchTool(service).Run(context.Background(), state)

	if state.FinalResponse != "fresh answer" {
		t.Errorf("got %q", state.FinalResponse)
	}
	if service.query != "latest skincare research" {
		t.Errorf("query not forwarded, got %q", service.query)
	}
	if len(state.Steps) != 1 || state.Steps[0].Action != "search_answered" {
		t.Errorf("expected search_answered step, got %+v", state.Steps)
	}
}

func TestSearchToolFailureFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		service SearchService
	}{
		{"error", &stubSearchService{err: errors.New("upstream down")}},
		{"empty answer", &stubSearchService{answer: "  "}},
		{"no service", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := models.NewConversationState("anything", nil)
			NewSearchTool(tt.service).Run(context.Background(), state)
			if state.FinalResponse != searchFallback {
				t.Errorf("got %q, want fallback", state.FinalResponse)
			}
		})
	}
}
