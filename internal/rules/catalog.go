// Package rules implements the safety triage core: the immutable rule
// catalog loaded from categorized JSON documents, the greeting and crisis
// classifiers, and the priority-ordered evaluation engine that runs before
// any generative step.
package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"unicode/utf8"

	"github.com/aara-health/aara/internal/models"
)

// Rule document filenames expected under the rules directory.
const (
	SafetyRulesFile   = "safety_rules.json"
	GeneralRulesFile  = "general_rules.json"
	HealthRulesFile   = "health_rules.json"
	SkincareRulesFile = "skincare_rules.json"
)

// documentTiers maps a document filename to its category keys and the tier
// each category feeds. Category order inside a document does not matter;
// tier order is fixed by models.TierOrder.
var documentTiers = map[string]map[string]models.TierID{
	SafetyRulesFile: {
		"emergencies":      models.TierEmergency,
		"crisis_resources": models.TierCrisisResource,
		"general_safety":   models.TierGeneralSafety,
	},
	GeneralRulesFile: {
		"agent_info":            models.TierAgentInfo,
		"platform_info":         models.TierPlatformInfo,
		"capabilities":          models.TierCapability,
		"conversation_starters": models.TierConversationStarter,
	},
	HealthRulesFile: {
		"safety_checks": models.TierHealthSafety,
		"redirects":     models.TierHealthRedirect,
	},
	SkincareRulesFile: {
		"safety_checks": models.TierSkincareSafety,
		"redirects":     models.TierSkincareRedirect,
	},
}

// Catalog holds the loaded rule tiers in evaluation order. It is immutable
// after construction; concurrent readers need no locking. Replacing a catalog
// is only done wholesale through Provider.Reload.
type Catalog struct {
	tiers map[models.TierID][]models.Rule
}

// Load reads the four rule documents from dir and builds a catalog. A
// missing or malformed document degrades to empty tiers for its categories
// rather than failing the load; the joined error reports what degraded so the
// caller can log it. The returned catalog is always usable.
func Load(dir string) (*Catalog, error) {
	c := &Catalog{tiers: make(map[models.TierID][]models.Rule, len(models.TierOrder))}
	for _, id := range models.TierOrder {
		c.tiers[id] = nil
	}

	var loadErrs []error
	for _, file := range []string{SafetyRulesFile, GeneralRulesFile, HealthRulesFile, SkincareRulesFile} {
		doc, err := loadDocument(filepath.Join(dir, file))
		if err != nil {
			slog.Warn("rules.Load: document degraded to empty tiers", "file", file, "error", err)
			loadErrs = append(loadErrs, fmt.Errorf("%s: %w", file, err))
			continue
		}
		for category, tierID := range documentTiers[file] {
			entries := doc[category]
			kept := make([]models.Rule, 0, len(entries))
			for _, rule := range entries {
				if err := rule.Validate(); err != nil {
					slog.Warn("rules.Load: skipping invalid rule", "file", file, "category", category, "error", err)
					continue
				}
				kept = append(kept, rule)
			}
			c.tiers[tierID] = kept
		}
	}

	slog.Info("rules.Load: catalog loaded", "dir", dir, "rules", c.Size(), "degraded_documents", len(loadErrs))
	return c, errors.Join(loadErrs...)
}

// loadDocument reads one rule document, enforcing UTF-8 encoding.
func loadDocument(path string) (map[string][]models.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule document: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("rule document %s is not valid UTF-8", filepath.Base(path))
	}
	var doc map[string][]models.Rule
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rule document: %w", err)
	}
	return doc, nil
}

// Tier returns the ordered rules of one tier. The returned slice must not be
// mutated by callers.
func (c *Catalog) Tier(id models.TierID) []models.Rule {
	return c.tiers[id]
}

// Size returns the total number of loaded rules across all tiers.
func (c *Catalog) Size() int {
	n := 0
	for _, rules := range c.tiers {
		n += len(rules)
	}
	return n
}

// Provider hands out the current catalog and supports hot reload by full
// replacement. The swap is atomic; in-flight requests keep the catalog they
// started with.
type Provider struct {
	dir     string
	current atomic.Pointer[Catalog]
}

// NewProvider loads the initial catalog from dir. Load failures degrade to
// empty tiers, so a provider is always constructed.
func NewProvider(dir string) *Provider {
	p := &Provider{dir: dir}
	catalog, err := Load(dir)
	if err != nil {
		slog.Warn("rules.NewProvider: initial load degraded", "dir", dir, "error", err)
	}
	p.current.Store(catalog)
	return p
}

// Catalog returns the current catalog.
func (p *Provider) Catalog() *Catalog {
	return p.current.Load()
}

// Reload builds a fresh catalog from the rules directory and swaps it in
// wholesale. On a degraded load the fresh catalog still replaces the old one,
// matching the load-time semantics; the error reports what degraded.
func (p *Provider) Reload() error {
	catalog, err := Load(p.dir)
	p.current.Store(catalog)
	if err != nil {
		slog.Warn("Provider.Reload: reloaded with degraded documents", "dir", p.dir, "error", err)
		return err
	}
	slog.Info("Provider.Reload: catalog replaced", "dir", p.dir, "rules", catalog.Size())
	return nil
}
