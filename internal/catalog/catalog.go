// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog fetches the public document list of a PowerDMS site and
// decodes it into a types.Catalog.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/powerdms-catalog/internal/httputil"
	"github.com/pdiddy/powerdms-catalog/pkg/types"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Fetch issues one GET against ref.APIEndpoint and decodes the document
// list. The request timeout comes from the client; cfg supplies the
// User-Agent. Every failure is terminal and is reported as one of the
// error types in this package.
func Fetch(ctx context.Context, client *http.Client, ref types.SiteReference, cfg types.HTTPConfig) (types.Catalog, error) {
	cfg = cfg.WithDefaults()

	resp, err := httputil.Get(ctx, client, ref.APIEndpoint, cfg.UserAgent, "application/json")
	if err != nil {
		return nil, &ErrTransport{Endpoint: ref.APIEndpoint, Cause: err}
	}
	body, err := httputil.ReadBody(resp)

	if !httputil.IsSuccess(resp.StatusCode) {
		return nil, &ErrHTTPStatus{Endpoint: ref.APIEndpoint, StatusCode: resp.StatusCode}
	}
	if err != nil {
		return nil, &ErrTransport{Endpoint: ref.APIEndpoint, Cause: fmt.Errorf("reading body: %w", err)}
	}

	return Decode(ref.APIEndpoint, body)
}

// Decode parses a document list response body. endpoint is only used in
// error messages.
func Decode(endpoint string, body []byte) (types.Catalog, error) {
	trimmed := bytes.TrimPrefix(body, utf8BOM)

	if !json.Valid(trimmed) {
		var v any
		cause := json.Unmarshal(trimmed, &v)
		if cause == nil {
			cause = fmt.Errorf("invalid JSON")
		}
		return nil, &ErrMalformedResponse{Endpoint: endpoint, Body: body, Cause: cause}
	}

	shape := func(reason string) error {
		return &ErrUnexpectedShape{Endpoint: endpoint, Body: trimmed, Reason: reason}
	}

	var top map[string]json.RawMessage
	if kind(trimmed) != '{' || json.Unmarshal(trimmed, &top) != nil {
		return nil, shape("top-level value is not an object")
	}

	raw, ok := top["data"]
	if !ok {
		return nil, shape(`missing "data" field`)
	}
	if kind(raw) != '[' {
		return nil, shape(`"data" is not a list`)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, shape(fmt.Sprintf(`decoding "data": %v`, err))
	}
	if len(elems) == 0 {
		return nil, fmt.Errorf("%s: %w", endpoint, ErrEmptyCatalog)
	}

	cat := make(types.Catalog, 0, len(elems))
	for i, elem := range elems {
		var fields map[string]json.RawMessage
		if kind(elem) != '{' || json.Unmarshal(elem, &fields) != nil {
			return nil, shape(fmt.Sprintf(`"data"[%d] is not an object`, i))
		}
		cat = append(cat, types.Document{
			Name:      field(fields, "name", types.MissingName),
			PublicURL: field(fields, "publicUrl", types.MissingURL),
		})
	}
	return cat, nil
}

// field returns the string value of key, fallback when the key is absent
// or null, and the literal JSON text for any other scalar.
func field(fields map[string]json.RawMessage, key, fallback string) string {
	raw, ok := fields[key]
	if !ok || kind(raw) == 'n' {
		return fallback
	}
	if kind(raw) == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return strings.TrimSpace(string(raw))
}

// kind returns the first significant byte of a JSON value, which
// identifies its type: '{', '[', '"', 'n' (null), 't'/'f', or a digit.
func kind(raw []byte) byte {
	raw = bytes.TrimLeft(raw, " \t\r\n")
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}
