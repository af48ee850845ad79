package products

import (
	"strings"
	"testing"
)

func TestFormatSuggestions(t *testing.T) {
	items := []Product{
		{Name: "Foam Cleanser", PriceRange: "$12-18", Description: "Foaming cleanser", WhyRecommended: "Controls oil", AffiliateLink: "https://example.com/foam"},
		{Name: "Rich Cream", PriceRange: "$20-30", Description: "Heavy cream", WhyRecommended: "Deep hydration", AffiliateLink: "https://example.com/cream"},
	}
	got := FormatSuggestions(items, "Affiliate disclaimer.")

	for _, want := range []string{
		"**Product Suggestions Based on Our Conversation:**",
		"**1. Foam Cleanser** ($12-18)",
		"**2. Rich Cream** ($20-30)",
		"**Why I recommend this:** Controls oil",
		"[Shop Here](https://example.com/foam)",
		"*Affiliate disclaimer.*",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatSuggestionsEmpty(t *testing.T) {
	if got := FormatSuggestions(nil, "d"); got != "" {
		t.Errorf("got %q", got)
	}
}
