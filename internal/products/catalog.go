// Package products loads the affiliate product catalog and scores candidate
// products against conversation context for the product-suggestion tool.
package products

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Product is one catalog entry.
type Product struct {
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	Category       string   `yaml:"-"`
	Subcategory    string   `yaml:"-"`
	PriceRange     string   `yaml:"price_range"`
	AffiliateLink  string   `yaml:"affiliate_link"`
	Keywords       []string `yaml:"keywords"`
	RecommendedFor []string `yaml:"recommended_for"`
	WhyRecommended string   `yaml:"why_recommended"`
}

// catalogDocument mirrors the YAML layout: products keyed by category and
// subcategory, plus affiliate settings.
type catalogDocument struct {
	Products map[string]map[string][]Product `yaml:"products"`
	Settings struct {
		DisclaimerText string `yaml:"disclaimer_text"`
	} `yaml:"affiliate_settings"`
}

const defaultDisclaimer = "Please note: These are affiliate links. I may earn a small commission if you purchase through these links, at no extra cost to you. Always patch test new skincare products and consult healthcare providers for supplements."

// Catalog holds the loaded products. Immutable after load; concurrent reads
// need no locking.
type Catalog struct {
	products   []Product
	disclaimer string
}

// LoadCatalog reads the YAML product document. Any failure degrades to a
// minimal hardcoded catalog so the suggestion tool keeps working.
func LoadCatalog(path string) *Catalog {
	doc, err := loadDocument(path)
	if err != nil {
		slog.Warn("products.LoadCatalog: falling back to minimal catalog", "path", path, "error", err)
		return fallbackCatalog()
	}

	c := &Catalog{disclaimer: doc.Settings.DisclaimerText}
	if c.disclaimer == "" {
		c.disclaimer = defaultDisclaimer
	}
	// Sort category keys so catalog order is stable across loads.
	for _, category := range sortedKeys(doc.Products) {
		subcategories := doc.Products[category]
		for _, subcategory := range sortedKeys(subcategories) {
			for _, p := range subcategories[subcategory] {
				p.Category = category
				p.Subcategory = subcategory
				c.products = append(c.products, p)
			}
		}
	}
	slog.Info("products.LoadCatalog: catalog loaded", "path", path, "products", len(c.products))
	return c
}

func loadDocument(path string) (*catalogDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read product catalog: %w", err)
	}
	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse product catalog: %w", err)
	}
	return &doc, nil
}

func fallbackCatalog() *Catalog {
	return &Catalog{
		disclaimer: defaultDisclaimer,
		products: []Product{{
			Name:           "Basic Cleanser",
			Description:    "Gentle cleanser for all skin types",
			Category:       "skincare",
			Subcategory:    "cleanser",
			PriceRange:     "$10-15",
			AffiliateLink:  "https://example.com/affiliate/cleanser",
			Keywords:       []string{"cleanser", "gentle"},
			RecommendedFor: []string{"all_skin_types"},
			WhyRecommended: "Suitable for daily use",
		}},
	}
}

// Disclaimer returns the affiliate disclaimer text.
func (c *Catalog) Disclaimer() string {
	return c.disclaimer
}

// Size returns the number of loaded products.
func (c *Catalog) Size() int {
	return len(c.products)
}

// Relevant scores every product against the context and returns the top max
// products in descending relevance order. Products with zero score are never
// returned.
func (c *Catalog) Relevant(context Context, max int) []Product {
	type scored struct {
		product Product
		score   int
	}
	var candidates []scored
	for _, p := range c.products {
		if s := score(p, context); s > 0 {
			candidates = append(candidates, scored{p, s})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > max {
		candidates = candidates[:max]
	}
	result := make([]Product, 0, len(candidates))
	for _, cand := range candidates {
		result = append(result, cand.product)
	}
	return result
}

// score applies the relevance weights: +3 for a skin-type match, +2 per
// matched concern keyword, +1 per mentioned product keyword.
func score(p Product, context Context) int {
	s := 0
	if context.SkinType != "" && contains(p.RecommendedFor, context.SkinType) {
		s += 3
	}
	for _, concern := range context.SkinConcerns {
		if matchesKeyword(p.Keywords, concern) {
			s += 2
		}
	}
	for _, concern := range context.HealthConcerns {
		if matchesKeyword(p.Keywords, concern) {
			s += 2
		}
	}
	for _, mentioned := range context.MentionedProducts {
		if mentioned == p.Subcategory || contains(p.Keywords, mentioned) {
			s++
		}
	}
	return s
}

// matchesKeyword checks a concern against product keywords in both its
// underscore and space spellings.
func matchesKeyword(keywords []string, concern string) bool {
	return contains(keywords, concern) || contains(keywords, strings.ReplaceAll(concern, "_", " "))
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func sortedKeys[M map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
