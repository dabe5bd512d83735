// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries scholarly metadata APIs and returns per-source,
// normalized results. A Router picks the sources for a query; Aggregate
// fans out to the matching backends and isolates each backend's failure.
package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/pdiddy/scholarly-search/pkg/types"
)

// Backend searches a single metadata API and maps its response into
// normalized records.
type Backend interface {
	Name() types.Source
	Search(ctx context.Context, query string, limit int) ([]types.Record, error)
}

// Backends indexes backends by the source they serve.
type Backends map[types.Source]Backend

// NewBackends builds every backend from cfg, sharing client.
func NewBackends(client *http.Client, cfg types.SearchConfig) Backends {
	cfg = cfg.WithDefaults()
	list := []Backend{
		&OpenAlexBackend{Client: client, UserAgent: cfg.UserAgent, Mailto: cfg.Mailto},
		&ArxivBackend{Client: client, UserAgent: cfg.UserAgent, Sort: cfg.ArxivSort},
		&CrossrefBackend{Client: client, UserAgent: cfg.UserAgent, Mailto: cfg.Mailto},
		&SemanticScholarBackend{Client: client, UserAgent: cfg.UserAgent, APIKey: cfg.SemanticScholarAPIKey},
	}
	bs := make(Backends, len(list))
	for _, b := range list {
		bs[b.Name()] = b
	}
	return bs
}

// SourceResult is the outcome of one backend call: records on success,
// Err on failure. Exactly one of the two is meaningful.
type SourceResult struct {
	Source  types.Source
	Records []types.Record
	Err     error
}

// ErrorRecord is how a failed source appears in the keyed mapping.
type ErrorRecord struct {
	Error string `json:"error" yaml:"error"`
}

// Result holds the per-source outcomes of one query, in routing order.
type Result struct {
	Query   string
	Sources []SourceResult
}

// Key returns the mapping key for a source result: the source name, or
// "<source>_error" when it failed.
func (sr SourceResult) Key() string {
	if sr.Err != nil {
		return string(sr.Source) + "_error"
	}
	return string(sr.Source)
}

// Map renders the result as the keyed mapping: source name to records,
// or "<source>_error" to a single ErrorRecord.
func (r Result) Map() map[string]any {
	m := make(map[string]any, len(r.Sources))
	for _, sr := range r.Sources {
		if sr.Err != nil {
			m[sr.Key()] = []ErrorRecord{{Error: sr.Err.Error()}}
			continue
		}
		recs := sr.Records
		if recs == nil {
			recs = []types.Record{}
		}
		m[sr.Key()] = recs
	}
	return m
}

// Failed returns the source results that carry an error.
func (r Result) Failed() []SourceResult {
	var failed []SourceResult
	for _, sr := range r.Sources {
		if sr.Err != nil {
			failed = append(failed, sr)
		}
	}
	return failed
}

// Aggregate routes query and queries the selected backends.
func Aggregate(ctx context.Context, query string, router Router, backends Backends, limit int, w io.Writer) (Result, error) {
	return AggregateSources(ctx, query, router.Route(query), backends, limit, w)
}

// AggregateSources queries the given sources concurrently and collects
// their outcomes in the order given. A backend error is recorded against
// its own source and never stops the others; a warning is written to w
// for each one. A source with no registered backend is reported the same
// way.
func AggregateSources(ctx context.Context, query string, sources []types.Source, backends Backends, limit int, w io.Writer) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, fmt.Errorf("query is empty: provide a research topic")
	}
	if len(sources) == 0 {
		return Result{}, fmt.Errorf("no sources selected")
	}

	slots := make([]SourceResult, len(sources))
	var wg sync.WaitGroup

	for i, src := range sources {
		slots[i].Source = src
		b, ok := backends[src]
		if !ok {
			slots[i].Err = fmt.Errorf("no backend registered for source %q", src)
			continue
		}
		wg.Add(1)
		go func(i int, b Backend) {
			defer wg.Done()
			slots[i].Records, slots[i].Err = searchOne(ctx, b, query, limit)
		}(i, b)
	}
	wg.Wait()

	for _, sr := range slots {
		if sr.Err != nil {
			fmt.Fprintf(w, "warning: source %s failed: %v\n", sr.Source, sr.Err)
		}
	}

	return Result{Query: query, Sources: slots}, nil
}

// searchOne calls b, converting a backend panic into an error for that
// source only.
func searchOne(ctx context.Context, b Backend, query string, limit int) (recs []types.Record, err error) {
	defer func() {
		if p := recover(); p != nil {
			recs, err = nil, fmt.Errorf("%s: backend panic: %v", b.Name(), p)
		}
	}()
	recs, err = b.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return recs, nil
}
