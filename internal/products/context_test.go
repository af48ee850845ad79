package products

import (
	"reflect"
	"testing"

	"github.com/aara-health/aara/internal/models"
)

func TestAnalyzeContextFromInput(t *testing.T) {
	got := AnalyzeContext("My oily skin has acne and dark spots, plus PCOS", nil)
	if got.SkinType != "oily" {
		t.Errorf("skin type: got %q", got.SkinType)
	}
	if !reflect.DeepEqual(got.SkinConcerns, []string{"acne", "dark spots"}) {
		t.Errorf("skin concerns: got %v", got.SkinConcerns)
	}
	if !reflect.DeepEqual(got.HealthConcerns, []string{"pcos"}) {
		t.Errorf("health concerns: got %v", got.HealthConcerns)
	}
}

func TestAnalyzeContextNormalizesCompoundTypes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"I have acne-prone skin", "acne_prone"},
		{"I have acne prone skin", "acne_prone"},
		{"my acneprone skin", "acne_prone"},
		{"mature skin here", "mature"},
	}
	for _, tt := range tests {
		if got := AnalyzeContext(tt.input, nil); got.SkinType != tt.want {
			t.Errorf("input %q: got %q, want %q", tt.input, got.SkinType, tt.want)
		}
	}
}

func TestAnalyzeContextUnderscoresHealthConcerns(t *testing.T) {
	got := AnalyzeContext("dealing with irregular periods and iron deficiency", nil)
	want := []string{"irregular_periods", "iron_deficiency"}
	if !reflect.DeepEqual(got.HealthConcerns, want) {
		t.Errorf("got %v, want %v", got.HealthConcerns, want)
	}
}

func TestAnalyzeContextReadsHistory(t *testing.T) {
	history := []models.Exchange{
		{User: "I'm looking for an affordable cleanser", Assistant: "Sure!"},
		{User: "also a serum maybe", Assistant: "Noted."},
	}
	got := AnalyzeContext("what do you suggest", history)
	if !reflect.DeepEqual(got.MentionedProducts, []string{"cleanser", "serum"}) {
		t.Errorf("mentions: got %v", got.MentionedProducts)
	}
	if !reflect.DeepEqual(got.BudgetIndicators, []string{"affordable"}) {
		t.Errorf("budget: got %v", got.BudgetIndicators)
	}
}

func TestAnalyzeContextHistoryWindow(t *testing.T) {
	history := []models.Exchange{
		{User: "old turn about a supplement", Assistant: "ok"},
		{User: "a", Assistant: "b"},
		{User: "c", Assistant: "d"},
		{User: "e", Assistant: "f"},
	}
	got := AnalyzeContext("anything", history)
	if len(got.MentionedProducts) != 0 {
		t.Errorf("mention outside the window must be ignored, got %v", got.MentionedProducts)
	}
}

func TestAnalyzeContextSkinTypeFromAssistantReply(t *testing.T) {
	history := []models.Exchange{
		{User: "help me", Assistant: "For oily skin: use a foaming cleanser."},
	}
	got := AnalyzeContext("what moisturizer should I buy", history)
	if got.SkinType != "oily" {
		t.Errorf("got %q, want skin type carried over from the reply", got.SkinType)
	}
}

func TestAnalyzeContextInputSkinTypeWins(t *testing.T) {
	history := []models.Exchange{
		{User: "earlier", Assistant: "your skin type is dry"},
	}
	got := AnalyzeContext("actually my skin is oily now", history)
	if got.SkinType != "oily" {
		t.Errorf("current input must win, got %q", got.SkinType)
	}
}

func TestContextEmpty(t *testing.T) {
	if !(Context{}).Empty() {
		t.Error("zero context must be empty")
	}
	if (Context{SkinType: "dry"}).Empty() {
		t.Error("skin type makes the context non-empty")
	}
	if !(Context{BudgetIndicators: []string{"cheap"}}).Empty() {
		t.Error("budget alone does not warrant suggestions")
	}
}
