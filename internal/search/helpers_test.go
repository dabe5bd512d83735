// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// apiTestServer serves body with statusCode and records the last query.
func apiTestServer(t *testing.T, statusCode int, contentType, body string) (*httptest.Server, *url.Values) {
	t.Helper()
	var last url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = r.URL.Query()
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(statusCode)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts, &last
}

// swapEndpoint points an endpoint var at u for the duration of the test.
func swapEndpoint(t *testing.T, endpoint *string, u string) {
	t.Helper()
	old := *endpoint
	*endpoint = u
	t.Cleanup(func() { *endpoint = old })
}
