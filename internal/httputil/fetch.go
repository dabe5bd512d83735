// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP helper shared by every source adapter.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps how much of a response body Get will buffer.
// Declared as a var so tests can lower it.
var maxBodyBytes int64 = 32 << 20

// StatusError reports a response whose status code was outside 2xx.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// Get performs a single GET of reqURL and returns the response body.
// Headers are applied in addition to User-Agent. There is no retry: a
// transport failure or non-2xx status is returned to the caller as is,
// the latter as a *StatusError. The client's Timeout bounds the request.
func Get(ctx context.Context, client *http.Client, reqURL, userAgent string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: req.URL.Redacted()}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > maxBodyBytes {
		return nil, fmt.Errorf("response exceeds %d bytes", maxBodyBytes)
	}
	return body, nil
}
