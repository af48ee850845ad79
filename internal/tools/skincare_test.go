package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/aara-health/aara/internal/models"
)

func TestSkincareRoutineSelection(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"oily basic", "I have oily skin", "For oily skin:"},
		{"oily acne prone", "oily skin with breakouts", "For oily, acne-prone skin:"},
		{"oily sensitive", "my oily skin gets irritation easily", "For oily, sensitive skin:"},
		{"dry mature", "dry skin and fine lines", "For dry, mature skin:"},
		{"dry basic", "my skin is so dry", "For dry skin:"},
		{"combination", "I think I have combination skin", "For combination skin:"},
		{"sensitive reactive", "sensitive and reactive skin", "For very sensitive/reactive skin:"},
		{"acne type defaults to mild", "help with my acne", "For mild acne:"},
	}
	tool := NewSkincareTool()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := models.NewConversationState(tt.input, nil)
			tool.Run(context.Background(), state)
			if !strings.HasPrefix(state.FinalResponse, tt.want) {
				t.Errorf("input %q: got %q, want prefix %q", tt.input, state.FinalResponse, tt.want)
			}
		})
	}
}

func TestSkincareConcernBeatsBasicRoutine(t *testing.T) {
	// acne is checked before aging, so an input carrying both concerns gets
	// the acne-prone routine.
	state := models.NewConversationState("oily skin with pimples and wrinkles", nil)
	NewSkincareTool().Run(context.Background(), state)
	if !strings.HasPrefix(state.FinalResponse, "For oily, acne-prone skin:") {
		t.Errorf("got %q", state.FinalResponse)
	}
}

func TestSkincareTipsAppended(t *testing.T) {
	state := models.NewConversationState("dry skin with wrinkles", nil)
	NewSkincareTool().Run(context.Background(), state)
	if !strings.Contains(state.FinalResponse, "**Additional Tips:**") {
		t.Errorf("expected tips section, got %q", state.FinalResponse)
	}
	if !strings.Contains(state.FinalResponse, "humidifier") {
		t.Errorf("expected dry-skin tip, got %q", state.FinalResponse)
	}
	if !strings.Contains(state.FinalResponse, "Consistency is key") {
		t.Errorf("expected aging tip, got %q", state.FinalResponse)
	}
}

func TestSkincareClarificationWithoutSkinType(t *testing.T) {
	tool := NewSkincareTool()

	state := models.NewConversationState("what should I put on my face", nil)
	tool.Run(context.Background(), state)
	if !strings.Contains(state.FinalResponse, "specify your skin type") {
		t.Errorf("got %q", state.FinalResponse)
	}

	state = models.NewConversationState("I need a skincare routine", nil)
	tool.Run(context.Background(), state)
	if !strings.Contains(state.FinalResponse, "recommend the best skincare routine") {
		t.Errorf("routine phrasing expected, got %q", state.FinalResponse)
	}
	if len(state.Steps) != 1 || state.Steps[0].Action != "clarification_requested" {
		t.Errorf("expected one clarification step, got %+v", state.Steps)
	}
}

func TestSkincareAuditStep(t *testing.T) {
	state := models.NewConversationState("oily skin with acne", nil)
	NewSkincareTool().Run(context.Background(), state)
	if len(state.Steps) != 1 {
		t.Fatalf("expected one step, got %d", len(state.Steps))
	}
	step := state.Steps[0]
	if step.Node != models.NodeSkincareTool || step.Action != "routine_provided" {
		t.Errorf("unexpected step %+v", step)
	}
	if step.Detail["skin_type"] != "oily" || step.Detail["concerns"] != "acne" {
		t.Errorf("unexpected step detail %+v", step.Detail)
	}
}
