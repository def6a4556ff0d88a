// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP client and request helpers used to
// talk to PowerDMS.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/powerdms-catalog/pkg/types"
)

// NewClient returns an http.Client whose Timeout bounds the whole exchange,
// body included. Zero config fields fall back to their defaults.
func NewClient(cfg types.HTTPConfig) *http.Client {
	cfg = cfg.WithDefaults()
	return &http.Client{Timeout: cfg.Timeout}
}

// Get issues a single GET for url with the given User-Agent and Accept
// headers. There are no retries: the caller sees the first response or
// transport error. An empty accept leaves the header unset.
func Get(ctx context.Context, client *http.Client, url, userAgent, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return client.Do(req)
}

// ReadBody reads and closes the response body.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// IsSuccess reports whether code is in the 2xx class.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}
