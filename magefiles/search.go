//go:build mage

package main

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholarly-search/internal/search"
)

const rulesTemplate = "scholarly-search.rules.yaml"

// Rules writes the built-in routing table to scholarly-search.rules.yaml
// as a starting point for a custom --rules file. An existing file is kept.
func Rules() error {
	if _, err := os.Stat(rulesTemplate); err == nil {
		fmt.Printf("%s already exists; not overwriting\n", rulesTemplate)
		return nil
	}
	data, err := yaml.Marshal(search.DefaultRouter())
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(rulesTemplate, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", rulesTemplate, err)
	}
	fmt.Printf("Wrote %s\n", rulesTemplate)
	return nil
}
