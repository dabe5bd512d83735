// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/scholarly-search/internal/httputil"
	"github.com/pdiddy/scholarly-search/pkg/types"
)

// NetworkError reports a transport failure, timeout, or non-2xx status
// from a source API. StatusCode is zero for transport failures.
type NetworkError struct {
	Source     types.Source
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: network error: API returned HTTP %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("%s: network error: %v", e.Source, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports a response body that is not well-formed JSON or XML.
type ParseError struct {
	Source types.Source
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parsing response: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err is or wraps a *NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsParseError reports whether err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// fetch performs the single GET every adapter makes and classifies the
// failure as a *NetworkError.
func fetch(ctx context.Context, client *http.Client, source types.Source, reqURL, userAgent string, headers map[string]string) ([]byte, error) {
	body, err := httputil.Get(ctx, client, reqURL, userAgent, headers)
	if err == nil {
		return body, nil
	}
	ne := &NetworkError{Source: source, Err: err}
	var se *httputil.StatusError
	if errors.As(err, &se) {
		ne.StatusCode = se.StatusCode
	}
	return nil, ne
}

// absoluteURL returns s when it parses as an absolute URL with a host,
// and the empty string otherwise.
func absoluteURL(s string) string {
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ""
	}
	return s
}

// firstURL returns the first candidate that is a valid absolute URL.
func firstURL(candidates ...string) string {
	for _, c := range candidates {
		if u := absoluteURL(c); u != "" {
			return u
		}
	}
	return ""
}
