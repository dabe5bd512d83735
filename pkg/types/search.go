// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for scholarly-search.
// Record is the normalized shape every source adapter produces; the
// config types carry the HTTP and search settings the CLI resolves.
package types

import "fmt"

// Source names an external metadata API.
type Source string

const (
	SourceArxiv           Source = "arxiv"
	SourceOpenAlex        Source = "openalex"
	SourceCrossref        Source = "crossref"
	SourceSemanticScholar Source = "semantic_scholar"
)

// KnownSources lists every source an adapter exists for, in display order.
var KnownSources = []Source{SourceOpenAlex, SourceArxiv, SourceCrossref, SourceSemanticScholar}

// ParseSource validates a source name.
func ParseSource(s string) (Source, error) {
	for _, k := range KnownSources {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown source %q", s)
}

// Record is a single search hit normalized across sources.
type Record struct {
	// Source identifies which adapter produced the record. Never empty.
	Source Source `json:"source" yaml:"source"`

	// Title is the work title as returned by the source; may be empty.
	Title string `json:"title" yaml:"title"`

	// Year is the publication year, nil when the source omits it.
	Year *int `json:"year,omitempty" yaml:"year,omitempty"`

	// Authors lists display names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Published is the raw arXiv publication timestamp (ISO-8601).
	Published string `json:"published,omitempty" yaml:"published,omitempty"`

	DOI         string `json:"doi,omitempty" yaml:"doi,omitempty"`
	DOIURL      string `json:"doi_url,omitempty" yaml:"doi_url,omitempty"`
	OpenAlexURL string `json:"openalex_url,omitempty" yaml:"openalex_url,omitempty"`
	AbstractURL string `json:"abstract_url,omitempty" yaml:"abstract_url,omitempty"`
	PDFURL      string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// CitationCount is only reported by Semantic Scholar.
	CitationCount *int `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`

	// BestURL is the most useful link for a reader, chosen by a
	// per-source priority. Empty when the source offered nothing.
	BestURL string `json:"best_url,omitempty" yaml:"best_url,omitempty"`
}

// DisplayURL returns the link to show for the record: BestURL, then
// AbstractURL, then DOIURL.
func (r Record) DisplayURL() string {
	switch {
	case r.BestURL != "":
		return r.BestURL
	case r.AbstractURL != "":
		return r.AbstractURL
	default:
		return r.DOIURL
	}
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }
