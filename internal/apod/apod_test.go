// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package apod

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholarly-search/internal/httputil"
)

const sampleAPOD = `{
  "date": "2024-03-14",
  "title": "Pi in the Sky",
  "url": "https://apod.nasa.gov/apod/image/2403/pi.jpg",
  "hdurl": "https://apod.nasa.gov/apod/image/2403/pi_hd.jpg",
  "media_type": "image",
  "explanation": "A circle of stars."
}`

type apodRequest struct {
	params url.Values
	key    string
}

func apodServer(t *testing.T, status int, body string) (*httptest.Server, *apodRequest) {
	t.Helper()
	last := &apodRequest{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last.params = r.URL.Query()
		last.key = r.Header.Get("X-Api-Key")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)

	old := apodAPIBase
	apodAPIBase = ts.URL
	t.Cleanup(func() { apodAPIBase = old })
	return ts, last
}

func TestClientOn(t *testing.T) {
	ts, req := apodServer(t, http.StatusOK, sampleAPOD)

	c := &Client{HTTP: ts.Client(), APIKey: "DEMO_KEY"}
	p, err := c.On(context.Background(), time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "DEMO_KEY", req.key)
	assert.Empty(t, req.params.Get("api_key"), "key is not sent in the query string")
	assert.Equal(t, "2024-03-14", req.params.Get("date"))
	assert.Equal(t, "Pi in the Sky", p.Title)
	assert.Equal(t, "https://apod.nasa.gov/apod/image/2403/pi.jpg", p.URL)
	assert.Equal(t, "image", p.MediaType)
}

func TestClientToday(t *testing.T) {
	ts, req := apodServer(t, http.StatusOK, sampleAPOD)

	c := &Client{HTTP: ts.Client(), APIKey: "k"}
	_, err := c.Today(context.Background())
	require.NoError(t, err)
	assert.Empty(t, req.params.Get("date"))
	assert.Equal(t, "k", req.key)
}

func TestClientErrors(t *testing.T) {
	t.Run("empty key", func(t *testing.T) {
		_, err := (&Client{}).Today(context.Background())
		require.Error(t, err)
	})

	t.Run("zero date", func(t *testing.T) {
		_, err := (&Client{APIKey: "k"}).On(context.Background(), time.Time{})
		require.Error(t, err)
	})

	t.Run("forbidden", func(t *testing.T) {
		ts, _ := apodServer(t, http.StatusForbidden, `{"error": {"code": "API_KEY_INVALID"}}`)
		_, err := (&Client{HTTP: ts.Client(), APIKey: "bad"}).Today(context.Background())
		var se *httputil.StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusForbidden, se.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		ts, _ := apodServer(t, http.StatusOK, `{"title": `)
		_, err := (&Client{HTTP: ts.Client(), APIKey: "k"}).Today(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing APOD response")
	})

	t.Run("key absent from status error", func(t *testing.T) {
		ts, _ := apodServer(t, http.StatusForbidden, `{}`)
		c := &Client{HTTP: ts.Client(), APIKey: "SUPERSECRETKEY"}
		_, err := c.On(context.Background(), time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC))
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "SUPERSECRETKEY")
	})

	t.Run("key absent from transport error", func(t *testing.T) {
		ts, _ := apodServer(t, http.StatusOK, sampleAPOD)
		ts.Close()
		c := &Client{HTTP: ts.Client(), APIKey: "SUPERSECRETKEY"}
		_, err := c.Today(context.Background())
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "SUPERSECRETKEY")
	})
}
