// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify decides whether an author affiliation names a commercial
// (pharma/biotech) organization and extracts contact emails from affiliation
// text. Keyword sets are data, so callers can replace them without touching
// the decision logic.
package classify

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Category is the signal a keyword contributes.
type Category string

const (
	Company  Category = "company"
	Academic Category = "academic"
)

// Rules holds the keyword sets. Matching is by substring on the lower-cased
// affiliation, so "inc" also matches "incorporated".
type Rules struct {
	Company  []string `yaml:"company"`
	Academic []string `yaml:"academic"`
}

// DefaultRules returns the built-in keyword sets.
func DefaultRules() Rules {
	return Rules{
		Company: []string{
			"pharma", "biotech", "inc", "ltd", "llc", "corporation",
			"company", "co.", "research and development", "r&d",
		},
		Academic: []string{
			"university", "college", "school", "institute",
			"hospital", "clinic", "academy", "lab", "laboratory",
		},
	}
}

// Categories returns the rules as a keyword to category mapping. A keyword
// listed in both sets maps to Academic, matching the veto in IsNonAcademic.
func (r Rules) Categories() map[string]Category {
	m := make(map[string]Category, len(r.Company)+len(r.Academic))
	for _, kw := range r.Company {
		m[kw] = Company
	}
	for _, kw := range r.Academic {
		m[kw] = Academic
	}
	return m
}

// LoadRules reads keyword sets from a YAML file with "company" and
// "academic" lists. A list left empty keeps the default for that category.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules file: %w", err)
	}
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Rules{}, fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	def := DefaultRules()
	if len(r.Company) == 0 {
		r.Company = def.Company
	}
	if len(r.Academic) == 0 {
		r.Academic = def.Academic
	}
	return r, nil
}

// Classifier applies a fixed set of rules. It is safe for concurrent use.
type Classifier struct {
	company  []string
	academic []string
}

// New returns a classifier for rules. Keywords are normalized the same way
// affiliations are; blank keywords are dropped.
func New(rules Rules) *Classifier {
	return &Classifier{
		company:  normalizeAll(rules.Company),
		academic: normalizeAll(rules.Academic),
	}
}

// Default returns a classifier using DefaultRules.
func Default() *Classifier {
	return New(DefaultRules())
}

// IsNonAcademic reports whether affiliation contains a company keyword and
// no academic keyword. Academic keywords win, so ambiguous affiliations are
// treated as academic. Empty input is never non-academic.
func (c *Classifier) IsNonAcademic(affiliation string) bool {
	aff := normalize(affiliation)
	if aff == "" {
		return false
	}
	return containsAny(aff, c.company) && !containsAny(aff, c.academic)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// normalize folds compatibility forms (full-width letters, ligatures) and
// lower-cases the result.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return cases.Lower(language.Und).String(norm.NFKC.String(s))
}

func normalizeAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if n := normalize(kw); n != "" {
			out = append(out, n)
		}
	}
	return out
}
