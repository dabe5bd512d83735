// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholarly-search/pkg/types"
)

// --- mock backend ---

type mockBackend struct {
	name    types.Source
	records []types.Record
	err     error
	panics  bool
	gotN    int
}

func (m *mockBackend) Name() types.Source { return m.name }

func (m *mockBackend) Search(_ context.Context, _ string, limit int) ([]types.Record, error) {
	m.gotN = limit
	if m.panics {
		panic("boom")
	}
	return m.records, m.err
}

func mockBackends(bs ...*mockBackend) Backends {
	out := make(Backends, len(bs))
	for _, b := range bs {
		out[b.name] = b
	}
	return out
}

func TestAggregateEmptyQuery(t *testing.T) {
	var buf bytes.Buffer
	_, err := Aggregate(context.Background(), "   ", DefaultRouter(), Backends{}, 5, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestAggregateNoSources(t *testing.T) {
	var buf bytes.Buffer
	_, err := AggregateSources(context.Background(), "x", nil, Backends{}, 5, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sources")
}

func TestAggregateUsesRouterSelection(t *testing.T) {
	oa := &mockBackend{name: types.SourceOpenAlex, records: []types.Record{{Source: types.SourceOpenAlex, Title: "A"}}}
	ax := &mockBackend{name: types.SourceArxiv, records: []types.Record{{Source: types.SourceArxiv, Title: "B"}}}
	cr := &mockBackend{name: types.SourceCrossref, records: []types.Record{{Source: types.SourceCrossref, Title: "C"}}}
	backends := mockBackends(oa, ax, cr)

	var buf bytes.Buffer
	res, err := Aggregate(context.Background(), "quantum computing", DefaultRouter(), backends, 3, &buf)
	require.NoError(t, err)
	require.Len(t, res.Sources, 3)
	assert.Equal(t, types.SourceOpenAlex, res.Sources[0].Source)
	assert.Equal(t, types.SourceCrossref, res.Sources[1].Source)
	assert.Equal(t, types.SourceArxiv, res.Sources[2].Source)
	assert.Equal(t, 3, ax.gotN, "limit is passed to each backend")

	ax.gotN = 0
	res, err = Aggregate(context.Background(), "cancer genomics", DefaultRouter(), backends, 3, &buf)
	require.NoError(t, err)
	require.Len(t, res.Sources, 2)
	assert.Equal(t, 0, ax.gotN, "arxiv is not queried for biomedical topics")
	assert.Empty(t, buf.String())
}

func TestAggregateIsolatesFailures(t *testing.T) {
	failing := &mockBackend{name: types.SourceOpenAlex, err: &NetworkError{Source: types.SourceOpenAlex, StatusCode: 503}}
	panicking := &mockBackend{name: types.SourceArxiv, panics: true}
	working := &mockBackend{name: types.SourceCrossref, records: []types.Record{{Source: types.SourceCrossref, Title: "ok"}}}

	var buf bytes.Buffer
	res, err := Aggregate(context.Background(), "quantum", DefaultRouter(), mockBackends(failing, panicking, working), 5, &buf)
	require.NoError(t, err, "backend failures never fail the aggregation")

	m := res.Map()
	assert.Len(t, m, 3)
	assert.Contains(t, m, "openalex_error")
	assert.Contains(t, m, "arxiv_error")
	assert.Contains(t, m, "crossref")
	assert.NotContains(t, m, "openalex")

	errRecs, ok := m["openalex_error"].([]ErrorRecord)
	require.True(t, ok)
	require.Len(t, errRecs, 1)
	assert.Contains(t, errRecs[0].Error, "HTTP 503")

	assert.Len(t, res.Failed(), 2)
	assert.True(t, IsNetworkError(res.Sources[0].Err))
	assert.Contains(t, res.Sources[2].Err.Error(), "panic")
	assert.Equal(t, 2, strings.Count(buf.String(), "warning:"))
}

func TestAggregateMissingBackend(t *testing.T) {
	oa := &mockBackend{name: types.SourceOpenAlex}
	var buf bytes.Buffer
	res, err := AggregateSources(context.Background(), "x",
		[]types.Source{types.SourceOpenAlex, types.SourceCrossref}, mockBackends(oa), 5, &buf)
	require.NoError(t, err)

	m := res.Map()
	assert.Equal(t, []types.Record{}, m["openalex"], "nil records render as an empty list")
	assert.Contains(t, m, "crossref_error")
}

// TestAggregateEndToEnd runs the real adapters against fake APIs: one
// healthy, one returning 500 and one returning a malformed body.
func TestAggregateEndToEnd(t *testing.T) {
	okTS, _ := apiTestServer(t, http.StatusOK, "application/json", sampleOpenAlexJSON)
	errTS, _ := apiTestServer(t, http.StatusInternalServerError, "text/plain", "oops")
	badTS, _ := apiTestServer(t, http.StatusOK, "application/atom+xml", "<feed><entry>")

	swapEndpoint(t, &openAlexSearchBase, okTS.URL)
	swapEndpoint(t, &crossrefAPIBase, errTS.URL)
	swapEndpoint(t, &arxivAPIBase, badTS.URL)

	backends := NewBackends(&http.Client{Timeout: 5 * time.Second}, types.SearchConfig{})

	var buf bytes.Buffer
	res, err := Aggregate(context.Background(), "quantum computing", DefaultRouter(), backends, 5, &buf)
	require.NoError(t, err)

	require.Len(t, res.Sources, 3)
	assert.NoError(t, res.Sources[0].Err)
	assert.Len(t, res.Sources[0].Records, 2)
	assert.True(t, IsNetworkError(res.Sources[1].Err), "crossref: %v", res.Sources[1].Err)
	assert.True(t, IsParseError(res.Sources[2].Err), "arxiv: %v", res.Sources[2].Err)

	m := res.Map()
	assert.Contains(t, m, "openalex")
	assert.Contains(t, m, "arxiv_error")
	assert.Contains(t, m, "crossref_error")
}

// TestAggregateIsolatesEachAdapterFailure breaks one real adapter at a
// time, by status or by body, and checks the other two still report.
func TestAggregateIsolatesEachAdapterFailure(t *testing.T) {
	type fixture struct {
		endpoint    *string
		contentType string
		healthy     string
		malformed   string
	}
	fixtures := map[types.Source]fixture{
		types.SourceOpenAlex: {&openAlexSearchBase, "application/json", sampleOpenAlexJSON, `{"results": [`},
		types.SourceCrossref: {&crossrefAPIBase, "application/json", sampleCrossrefJSON, `{"message": {"items": [`},
		types.SourceArxiv:    {&arxivAPIBase, "application/atom+xml", sampleArxivFeed, "<feed><entry>"},
	}

	for _, broken := range []types.Source{types.SourceOpenAlex, types.SourceCrossref, types.SourceArxiv} {
		for _, kind := range []string{"status", "body"} {
			t.Run(string(broken)+"/"+kind, func(t *testing.T) {
				for src, f := range fixtures {
					status, body := http.StatusOK, f.healthy
					if src == broken {
						if kind == "status" {
							status, body = http.StatusServiceUnavailable, "unavailable"
						} else {
							body = f.malformed
						}
					}
					ts, _ := apiTestServer(t, status, f.contentType, body)
					swapEndpoint(t, f.endpoint, ts.URL)
				}

				backends := NewBackends(&http.Client{Timeout: 5 * time.Second}, types.SearchConfig{})
				var buf bytes.Buffer
				res, err := Aggregate(context.Background(), "quantum computing", DefaultRouter(), backends, 5, &buf)
				require.NoError(t, err)
				require.Len(t, res.Sources, 3)

				for _, sr := range res.Sources {
					if sr.Source != broken {
						assert.NoError(t, sr.Err, "%s", sr.Source)
						assert.NotEmpty(t, sr.Records, "%s", sr.Source)
						continue
					}
					if kind == "status" {
						assert.True(t, IsNetworkError(sr.Err), "%s: %v", sr.Source, sr.Err)
					} else {
						assert.True(t, IsParseError(sr.Err), "%s: %v", sr.Source, sr.Err)
					}
				}

				m := res.Map()
				assert.Len(t, m, 3)
				assert.Contains(t, m, string(broken)+"_error")
				assert.NotContains(t, m, string(broken))
				assert.Equal(t, 1, strings.Count(buf.String(), "warning:"))
			})
		}
	}
}

func TestAggregateTimeoutIsPerSource(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	defer slow.Close()
	fast, _ := apiTestServer(t, http.StatusOK, "application/json", `{"message": {"items": []}}`)

	swapEndpoint(t, &openAlexSearchBase, slow.URL)
	swapEndpoint(t, &crossrefAPIBase, fast.URL)

	backends := NewBackends(&http.Client{Timeout: 250 * time.Millisecond}, types.SearchConfig{})

	var buf bytes.Buffer
	res, err := Aggregate(context.Background(), "history", DefaultRouter(), backends, 5, &buf)
	require.NoError(t, err)
	require.Len(t, res.Sources, 2)
	assert.True(t, IsNetworkError(res.Sources[0].Err))
	assert.NoError(t, res.Sources[1].Err)
}

func TestNewBackendsAppliesConfig(t *testing.T) {
	bs := NewBackends(nil, types.SearchConfig{Mailto: "a@b.c", ArxivSort: types.ArxivSortSubmitted})
	require.Len(t, bs, len(types.KnownSources))
	for src, b := range bs {
		assert.Equal(t, src, b.Name())
	}
	assert.Equal(t, "a@b.c", bs[types.SourceOpenAlex].(*OpenAlexBackend).Mailto)
	assert.Equal(t, "a@b.c", bs[types.SourceCrossref].(*CrossrefBackend).Mailto)
	assert.Equal(t, types.ArxivSortSubmitted, bs[types.SourceArxiv].(*ArxivBackend).Sort)
	assert.Equal(t, types.DefaultUserAgent, bs[types.SourceArxiv].(*ArxivBackend).UserAgent)
}

func TestNetworkErrorMessage(t *testing.T) {
	withStatus := &NetworkError{Source: types.SourceArxiv, StatusCode: 502}
	assert.Equal(t, "arxiv: network error: API returned HTTP 502", withStatus.Error())

	transport := &NetworkError{Source: types.SourceCrossref, Err: fmt.Errorf("dial tcp: refused")}
	assert.Equal(t, "crossref: network error: dial tcp: refused", transport.Error())
}
