// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholarly-search/pkg/types"
)

// Rule selects Sources when the query contains any of Keywords.
type Rule struct {
	Name     string         `yaml:"name"`
	Keywords []string       `yaml:"keywords"`
	Sources  []types.Source `yaml:"sources"`
}

// matches reports whether the lower-cased query contains any keyword.
func (r Rule) matches(lowered string) bool {
	for _, k := range r.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && strings.Contains(lowered, k) {
			return true
		}
	}
	return false
}

// Router picks which sources to query. Rules are evaluated in order and
// the first match wins; Default applies when nothing matches.
type Router struct {
	Rules   []Rule         `yaml:"rules"`
	Default []types.Source `yaml:"default"`
}

// DefaultRouter returns the built-in routing table.
//
// The biomedical rule selects the same sources as the fallback, so it
// never changes the outcome. It is kept as a separate rule so a rule file
// can diverge without reshuffling the table.
func DefaultRouter() Router {
	return Router{
		Rules: []Rule{
			{
				Name: "science",
				Keywords: []string{
					"quantum", "relativity", "neural network", "machine learning",
					"deep learning", "graph theory", "astrophysics", "computer vision",
				},
				Sources: []types.Source{types.SourceOpenAlex, types.SourceCrossref, types.SourceArxiv},
			},
			{
				Name:     "biomedical",
				Keywords: []string{"cancer", "gene", "genome", "protein", "clinical trial"},
				Sources:  []types.Source{types.SourceOpenAlex, types.SourceCrossref},
			},
		},
		Default: []types.Source{types.SourceOpenAlex, types.SourceCrossref},
	}
}

// Route returns the sources for query. The returned slice is a copy.
func (r Router) Route(query string) []types.Source {
	sources, _ := r.Match(query)
	return sources
}

// Match is Route plus the name of the rule that fired ("default" when
// none did).
func (r Router) Match(query string) ([]types.Source, string) {
	lowered := strings.ToLower(query)
	for _, rule := range r.Rules {
		if rule.matches(lowered) {
			return append([]types.Source(nil), rule.Sources...), rule.Name
		}
	}
	return append([]types.Source(nil), r.Default...), "default"
}

// Validate checks that every referenced source is known and that the
// fallback selects at least one source.
func (r Router) Validate() error {
	if len(r.Default) == 0 {
		return fmt.Errorf("routing table has no default sources")
	}
	check := func(where string, sources []types.Source) error {
		for _, s := range sources {
			if _, err := types.ParseSource(string(s)); err != nil {
				return fmt.Errorf("%s: %w", where, err)
			}
		}
		return nil
	}
	for i, rule := range r.Rules {
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("rule %d (%s) has no keywords", i, rule.Name)
		}
		if len(rule.Sources) == 0 {
			return fmt.Errorf("rule %d (%s) selects no sources", i, rule.Name)
		}
		if err := check(fmt.Sprintf("rule %d (%s)", i, rule.Name), rule.Sources); err != nil {
			return err
		}
	}
	return check("default", r.Default)
}

// LoadRouter reads a YAML routing table from path.
func LoadRouter(path string) (Router, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Router{}, fmt.Errorf("reading rules file: %w", err)
	}
	return ParseRouter(data)
}

// ParseRouter decodes and validates a YAML routing table.
func ParseRouter(data []byte) (Router, error) {
	var r Router
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Router{}, fmt.Errorf("parsing rules file: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Router{}, fmt.Errorf("invalid rules file: %w", err)
	}
	return r, nil
}
