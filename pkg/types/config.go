package types

import "time"

// HTTPConfig holds shared HTTP settings used by every adapter.
type HTTPConfig struct {
	// Timeout is the per-request timeout (default 20s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "scholarly-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ArxivSort selects the arXiv result ordering.
type ArxivSort string

const (
	ArxivSortRelevance ArxivSort = "relevance"
	ArxivSortSubmitted ArxivSort = "submitted"
)

// SearchConfig holds settings for the search command.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Limit is the number of records requested from each source (default 5).
	Limit int `json:"limit" yaml:"limit"`

	// Mailto is the contact address sent to OpenAlex and Crossref for
	// their polite pools.
	Mailto string `json:"mailto" yaml:"mailto"`

	// RulesFile optionally points to a YAML routing rule file.
	RulesFile string `json:"rules_file,omitempty" yaml:"rules_file,omitempty"`

	// ArxivSort selects arXiv ordering: relevance or submitted.
	ArxivSort ArxivSort `json:"arxiv_sort" yaml:"arxiv_sort"`

	// SemanticScholarAPIKey is required by the Semantic Scholar adapter.
	SemanticScholarAPIKey string `json:"-" yaml:"-"`
}

const (
	DefaultTimeout   = 20 * time.Second
	DefaultLimit     = 5
	DefaultUserAgent = "scholarly-search/0.1"
	DefaultMailto    = "you@example.com"
)

// WithDefaults fills zero fields with their defaults.
func (c SearchConfig) WithDefaults() SearchConfig {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	if c.Mailto == "" {
		c.Mailto = DefaultMailto
	}
	if c.ArxivSort == "" {
		c.ArxivSort = ArxivSortRelevance
	}
	return c
}
