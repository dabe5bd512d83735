// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package apod fetches NASA's Astronomy Picture of the Day.
package apod

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/scholarly-search/internal/httputil"
)

// apodAPIBase is the APOD endpoint. Declared as a var so tests can
// substitute an httptest server.
var apodAPIBase = "https://api.nasa.gov/planetary/apod"

// Picture is one APOD entry.
type Picture struct {
	Date        string `json:"date" yaml:"date"`
	Title       string `json:"title" yaml:"title"`
	URL         string `json:"url" yaml:"url"`
	HDURL       string `json:"hdurl,omitempty" yaml:"hdurl,omitempty"`
	MediaType   string `json:"media_type" yaml:"media_type"`
	Explanation string `json:"explanation" yaml:"explanation"`
	Copyright   string `json:"copyright,omitempty" yaml:"copyright,omitempty"`
}

// Client queries the APOD API with a static key.
type Client struct {
	HTTP      *http.Client
	APIKey    string
	UserAgent string
}

// Today returns the picture for the current day.
func (c *Client) Today(ctx context.Context) (Picture, error) {
	return c.fetch(ctx, time.Time{})
}

// On returns the picture published on day.
func (c *Client) On(ctx context.Context, day time.Time) (Picture, error) {
	if day.IsZero() {
		return Picture{}, fmt.Errorf("date is required")
	}
	return c.fetch(ctx, day)
}

func (c *Client) fetch(ctx context.Context, day time.Time) (Picture, error) {
	if c.APIKey == "" {
		return Picture{}, fmt.Errorf("NASA API key is empty")
	}

	// Key goes in a header: request URLs show up in error messages.
	reqURL := apodAPIBase
	if !day.IsZero() {
		reqURL += "?" + url.Values{"date": {day.Format("2006-01-02")}}.Encode()
	}

	body, err := httputil.Get(ctx, c.HTTP, reqURL, c.UserAgent, map[string]string{"X-Api-Key": c.APIKey})
	if err != nil {
		return Picture{}, fmt.Errorf("APOD request: %w", err)
	}

	var p Picture
	if err := json.Unmarshal(body, &p); err != nil {
		return Picture{}, fmt.Errorf("parsing APOD response: %w", err)
	}
	return p, nil
}
