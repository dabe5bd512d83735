// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/scholarly-search/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivBackend queries the arXiv Atom API.
type ArxivBackend struct {
	Client    *http.Client
	UserAgent string
	// Sort selects relevance (default) or newest-submitted-first ordering.
	Sort types.ArxivSort
}

// Name returns the backend identifier.
func (b *ArxivBackend) Name() types.Source { return types.SourceArxiv }

// Search queries arXiv for query and returns up to limit records.
func (b *ArxivBackend) Search(ctx context.Context, query string, limit int) ([]types.Record, error) {
	if limit <= 0 {
		limit = types.DefaultLimit
	}

	params := url.Values{
		"search_query": {"all:" + query},
		"start":        {"0"},
		"max_results":  {fmt.Sprintf("%d", limit)},
	}
	if b.Sort == types.ArxivSortSubmitted {
		params.Set("sortBy", "submittedDate")
		params.Set("sortOrder", "descending")
	}

	body, err := fetch(ctx, b.Client, types.SourceArxiv, arxivAPIBase+"?"+params.Encode(), b.UserAgent, nil)
	if err != nil {
		return nil, err
	}

	feed, err := parseArxivFeed(body)
	if err != nil {
		return nil, err
	}

	records := make([]types.Record, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		records = append(records, mapArxivEntry(entry))
	}
	return records, nil
}

// parseArxivFeed decodes an Atom feed. Any syntax error fails the whole
// feed; there is no partial-entry recovery.
func parseArxivFeed(body []byte) (arxivFeed, error) {
	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return arxivFeed{}, &ParseError{Source: types.SourceArxiv, Err: err}
	}
	return feed, nil
}

// mapArxivEntry converts one Atom entry into a Record.
func mapArxivEntry(e arxivEntry) types.Record {
	r := types.Record{
		Source:      types.SourceArxiv,
		Title:       strings.TrimSpace(e.Title),
		Published:   strings.TrimSpace(e.Published),
		AbstractURL: strings.TrimSpace(e.ID),
		PDFURL:      arxivPDFLink(e.Links),
		Authors:     []string{},
	}

	for _, a := range e.Authors {
		r.Authors = append(r.Authors, strings.TrimSpace(a.Name))
	}

	if t, err := time.Parse(time.RFC3339, r.Published); err == nil {
		r.Year = types.IntPtr(t.Year())
	}

	r.BestURL = firstURL(r.PDFURL, r.AbstractURL)
	return r
}

// arxivPDFLink returns the href of the link titled "pdf". When several
// carry that title the last one wins.
func arxivPDFLink(links []arxivLink) string {
	var href string
	for _, l := range links {
		if l.Title == "pdf" {
			href = strings.TrimSpace(l.Href)
		}
	}
	return href
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
	Links     []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Rel   string `xml:"rel,attr"`
	Type  string `xml:"type,attr"`
}
