// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"
)

// FormatText writes each source as an upper-cased header followed by its
// records' titles and links.
func FormatText(res Result, w io.Writer) {
	if len(res.Sources) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	for _, sr := range res.Sources {
		fmt.Fprintf(w, "\n=== %s ===\n", strings.ToUpper(sr.Key()))
		if sr.Err != nil {
			fmt.Fprintf(w, " - error: %v\n", sr.Err)
			continue
		}
		if len(sr.Records) == 0 {
			fmt.Fprintln(w, " (no records)")
			continue
		}
		for _, r := range sr.Records {
			title := r.Title
			if title == "" {
				title = "NO TITLE"
			}
			fmt.Fprintf(w, " - %s\n", title)
			if u := r.DisplayURL(); u != "" {
				fmt.Fprintf(w, "   -> %s\n", u)
			}
		}
	}
}

// FormatJSON writes the keyed mapping as indented JSON to w.
func FormatJSON(res Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Map())
}

// FormatYAML writes the keyed mapping as YAML to w.
func FormatYAML(res Result, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(res.Map())
}
