// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/scholarly-search/pkg/types"
)

// crossrefAPIBase is the Crossref works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

const doiResolver = "https://doi.org/"

// CrossrefBackend queries the Crossref REST API.
type CrossrefBackend struct {
	Client    *http.Client
	UserAgent string
	// Mailto is sent as the mailto parameter for polite pool access.
	Mailto string
}

// Name returns the backend identifier.
func (b *CrossrefBackend) Name() types.Source { return types.SourceCrossref }

// Search queries Crossref for query and returns up to limit records.
func (b *CrossrefBackend) Search(ctx context.Context, query string, limit int) ([]types.Record, error) {
	if limit <= 0 {
		limit = types.DefaultLimit
	}

	params := url.Values{
		"query": {query},
		"rows":  {fmt.Sprintf("%d", limit)},
	}
	if b.Mailto != "" {
		params.Set("mailto", b.Mailto)
	}

	body, err := fetch(ctx, b.Client, types.SourceCrossref, crossrefAPIBase+"?"+params.Encode(), b.UserAgent, nil)
	if err != nil {
		return nil, err
	}

	var cr crossrefResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, &ParseError{Source: types.SourceCrossref, Err: err}
	}

	records := make([]types.Record, 0, len(cr.Message.Items))
	for _, item := range cr.Message.Items {
		records = append(records, mapCrossrefItem(item))
	}
	return records, nil
}

// mapCrossrefItem converts one Crossref work into a Record.
func mapCrossrefItem(it crossrefItem) types.Record {
	r := types.Record{
		Source:  types.SourceCrossref,
		DOI:     it.DOI,
		Year:    crossrefYear(it.Issued),
		Authors: crossrefAuthors(it.Author),
	}
	if len(it.Title) > 0 {
		r.Title = it.Title[0]
	}
	if it.DOI != "" {
		r.DOIURL = doiResolver + it.DOI
	}
	r.BestURL = firstURL(crossrefResourceURL(it.Resource), r.DOIURL)
	return r
}

// crossrefYear returns issued.date-parts[0][0], or nil when absent.
func crossrefYear(d crossrefDate) *int {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return nil
	}
	return d.DateParts[0][0]
}

// crossrefAuthors renders "given family" names. Entries that are not JSON
// objects, and entries with neither name part, are skipped.
func crossrefAuthors(raw []json.RawMessage) []string {
	authors := []string{}
	for _, msg := range raw {
		var a crossrefAuthor
		if err := json.Unmarshal(msg, &a); err != nil {
			continue
		}
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

// crossrefResourceURL returns resource.primary.URL. A bare string in
// place of the primary object is accepted as the URL itself.
func crossrefResourceURL(res *crossrefResource) string {
	if res == nil || len(res.Primary) == 0 {
		return ""
	}
	var primary struct {
		URL string `json:"URL"`
	}
	if err := json.Unmarshal(res.Primary, &primary); err == nil {
		return primary.URL
	}
	var s string
	if err := json.Unmarshal(res.Primary, &s); err == nil {
		return s
	}
	return ""
}

// Crossref API JSON structures.
type crossrefResponse struct {
	Status  string          `json:"status"`
	Message crossrefMessage `json:"message"`
}

type crossrefMessage struct {
	TotalResults int            `json:"total-results"`
	Items        []crossrefItem `json:"items"`
}

type crossrefItem struct {
	DOI      string            `json:"DOI"`
	Title    []string          `json:"title"`
	Author   []json.RawMessage `json:"author"`
	Issued   crossrefDate      `json:"issued"`
	Resource *crossrefResource `json:"resource"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefDate struct {
	DateParts [][]*int `json:"date-parts"`
}

type crossrefResource struct {
	Primary json.RawMessage `json:"primary"`
}
