// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/scholarly-search/pkg/types"
)

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

// OpenAlexBackend queries the OpenAlex API.
type OpenAlexBackend struct {
	Client    *http.Client
	UserAgent string
	// Mailto is sent as the mailto parameter for polite pool access.
	Mailto string
}

// Name returns the backend identifier.
func (b *OpenAlexBackend) Name() types.Source { return types.SourceOpenAlex }

// Search queries OpenAlex for query and returns up to limit records.
func (b *OpenAlexBackend) Search(ctx context.Context, query string, limit int) ([]types.Record, error) {
	if limit <= 0 {
		limit = types.DefaultLimit
	}
	if limit > 200 {
		limit = 200
	}

	params := url.Values{
		"search":   {query},
		"per-page": {fmt.Sprintf("%d", limit)},
	}
	if b.Mailto != "" {
		params.Set("mailto", b.Mailto)
	}

	body, err := fetch(ctx, b.Client, types.SourceOpenAlex, openAlexSearchBase+"?"+params.Encode(), b.UserAgent, nil)
	if err != nil {
		return nil, err
	}

	var oar openAlexResponse
	if err := json.Unmarshal(body, &oar); err != nil {
		return nil, &ParseError{Source: types.SourceOpenAlex, Err: err}
	}

	records := make([]types.Record, 0, len(oar.Results))
	for _, work := range oar.Results {
		records = append(records, mapOpenAlexWork(work))
	}
	return records, nil
}

// mapOpenAlexWork converts one OpenAlex work into a Record. Authorships
// without a display name are skipped rather than emitted as blanks.
func mapOpenAlexWork(w openAlexWork) types.Record {
	r := types.Record{
		Source:      types.SourceOpenAlex,
		Title:       w.Title,
		DOI:         w.DOI,
		OpenAlexURL: w.ID,
		Year:        w.PublicationYear,
		Authors:     []string{},
		BestURL:     openAlexBestURL(w),
	}
	for _, a := range w.Authorships {
		if a.Author.DisplayName != "" {
			r.Authors = append(r.Authors, a.Author.DisplayName)
		}
	}
	return r
}

// openAlexURLSteps is the best_url priority, highest first.
var openAlexURLSteps = []func(openAlexWork) string{
	hostOrganizationURL,
	primaryLandingPageURL,
	firstLocationLandingPageURL,
	canonicalWorkURL,
}

// openAlexBestURL walks openAlexURLSteps and returns the first step that
// yields a valid absolute URL.
func openAlexBestURL(w openAlexWork) string {
	for _, step := range openAlexURLSteps {
		if u := absoluteURL(step(w)); u != "" {
			return u
		}
	}
	return ""
}

func hostOrganizationURL(w openAlexWork) string {
	if w.PrimaryLocation == nil || w.PrimaryLocation.Source == nil {
		return ""
	}
	return w.PrimaryLocation.Source.HostOrganizationURL
}

func primaryLandingPageURL(w openAlexWork) string {
	if w.PrimaryLocation == nil {
		return ""
	}
	return w.PrimaryLocation.LandingPageURL
}

func firstLocationLandingPageURL(w openAlexWork) string {
	for _, loc := range w.Locations {
		if absoluteURL(loc.LandingPageURL) != "" {
			return loc.LandingPageURL
		}
	}
	return ""
}

func canonicalWorkURL(w openAlexWork) string { return w.ID }

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexWork struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	DOI             string               `json:"doi"`
	PublicationYear *int                 `json:"publication_year"`
	Authorships     []openAlexAuthorship `json:"authorships"`
	PrimaryLocation *openAlexLocation    `json:"primary_location"`
	Locations       []openAlexLocation   `json:"locations"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexLocation struct {
	LandingPageURL string          `json:"landing_page_url"`
	PDFURL         string          `json:"pdf_url"`
	Source         *openAlexSource `json:"source"`
}

type openAlexSource struct {
	DisplayName         string `json:"display_name"`
	HostOrganizationURL string `json:"host_organization_url"`
}
