// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pdiddy/scholarly-search/internal/secrets"
	"github.com/pdiddy/scholarly-search/pkg/types"
)

// semanticAPIBase is the Semantic Scholar bulk paper search endpoint.
// Declared as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search/bulk"

const semanticFields = "title,year,citationCount,authors,openAccessPdf,externalIds,url"

// SemanticScholarBackend queries the Semantic Scholar bulk search API.
// It requires an API key.
type SemanticScholarBackend struct {
	Client    *http.Client
	UserAgent string
	APIKey    string
	// Year is an optional year filter such as "2024-" or "2019-2021".
	Year string
}

// Name returns the backend identifier.
func (b *SemanticScholarBackend) Name() types.Source { return types.SourceSemanticScholar }

// Search queries Semantic Scholar. The bulk endpoint ignores page size, so
// the first limit papers of the single returned page are kept.
func (b *SemanticScholarBackend) Search(ctx context.Context, query string, limit int) ([]types.Record, error) {
	if b.APIKey == "" {
		return nil, &secrets.ConfigError{Credential: secrets.SemanticScholar}
	}
	if limit <= 0 {
		limit = types.DefaultLimit
	}

	params := url.Values{
		"query":  {query},
		"fields": {semanticFields},
	}
	if b.Year != "" {
		params.Set("year", b.Year)
	}

	headers := map[string]string{"x-api-key": b.APIKey}
	body, err := fetch(ctx, b.Client, types.SourceSemanticScholar, semanticAPIBase+"?"+params.Encode(), b.UserAgent, headers)
	if err != nil {
		return nil, err
	}

	var sr semanticResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, &ParseError{Source: types.SourceSemanticScholar, Err: err}
	}

	papers := sr.Data
	if len(papers) > limit {
		papers = papers[:limit]
	}
	records := make([]types.Record, 0, len(papers))
	for _, p := range papers {
		records = append(records, mapSemanticPaper(p))
	}
	return records, nil
}

// mapSemanticPaper converts one Semantic Scholar paper into a Record.
// best_url prefers the open-access PDF, then the paper page, then the DOI.
func mapSemanticPaper(p semanticPaper) types.Record {
	r := types.Record{
		Source:        types.SourceSemanticScholar,
		Title:         p.Title,
		Year:          p.Year,
		CitationCount: p.CitationCount,
		DOI:           p.ExternalIDs.DOI,
		AbstractURL:   p.URL,
		Authors:       []string{},
	}
	for _, a := range p.Authors {
		if a.Name != "" {
			r.Authors = append(r.Authors, a.Name)
		}
	}
	if p.OpenAccessPDF != nil {
		r.PDFURL = p.OpenAccessPDF.URL
	}
	if r.DOI != "" {
		r.DOIURL = doiResolver + r.DOI
	}
	r.BestURL = firstURL(r.PDFURL, r.AbstractURL, r.DOIURL)
	return r
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int             `json:"total"`
	Token string          `json:"token"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID       string              `json:"paperId"`
	Title         string              `json:"title"`
	Year          *int                `json:"year"`
	CitationCount *int                `json:"citationCount"`
	URL           string              `json:"url"`
	Authors       []semanticAuthor    `json:"authors"`
	OpenAccessPDF *semanticOpenAccess `json:"openAccessPdf"`
	ExternalIDs   semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticOpenAccess struct {
	URL    string `json:"url"`
	Status string `json:"status"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}
