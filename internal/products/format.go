package products

import (
	"fmt"
	"strings"
)

// FormatSuggestions renders ranked products as a markdown block ready to be
// appended to a response. Returns the empty string for an empty list.
func FormatSuggestions(items []Product, disclaimer string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\n**Product Suggestions Based on Our Conversation:**\n\n")
	for i, p := range items {
		fmt.Fprintf(&b, "**%d. %s** (%s)\n", i+1, p.Name, p.PriceRange)
		fmt.Fprintf(&b, "*%s*\n", p.Description)
		fmt.Fprintf(&b, "**Why I recommend this:** %s\n", p.WhyRecommended)
		fmt.Fprintf(&b, "[Shop Here](%s)\n\n", p.AffiliateLink)
	}
	fmt.Fprintf(&b, "*%s*", disclaimer)
	return b.String()
}
