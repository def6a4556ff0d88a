// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"errors"
	"fmt"
)

// ErrEmptyCatalog reports a well-formed response whose data list is empty.
// It is informational: the fetch succeeded but there is nothing to write.
var ErrEmptyCatalog = errors.New("catalog: no public documents found")

// ErrTransport is returned when the request never produced a complete
// response: connection refused, DNS failure, timeout, or a truncated body.
type ErrTransport struct {
	Endpoint string
	Cause    error
}

func (e *ErrTransport) Error() string {
	return fmt.Sprintf("catalog: request to %s failed: %v", e.Endpoint, e.Cause)
}

func (e *ErrTransport) Unwrap() error { return e.Cause }

// ErrHTTPStatus is returned for any response outside the 2xx class.
type ErrHTTPStatus struct {
	Endpoint   string
	StatusCode int
}

func (e *ErrHTTPStatus) Error() string {
	return fmt.Sprintf("catalog: HTTP %d for URL %s", e.StatusCode, e.Endpoint)
}

// ErrMalformedResponse is returned when the body is not JSON. Body holds
// the raw response so it can be saved for inspection.
type ErrMalformedResponse struct {
	Endpoint string
	Body     []byte
	Cause    error
}

func (e *ErrMalformedResponse) Error() string {
	return fmt.Sprintf("catalog: response from %s is not valid JSON: %v", e.Endpoint, e.Cause)
}

func (e *ErrMalformedResponse) Unwrap() error { return e.Cause }

// ErrUnexpectedShape is returned when the body is JSON but does not carry
// a "data" list of objects. Body holds the raw JSON.
type ErrUnexpectedShape struct {
	Endpoint string
	Body     []byte
	Reason   string
}

func (e *ErrUnexpectedShape) Error() string {
	return fmt.Sprintf("catalog: unexpected response shape from %s: %s", e.Endpoint, e.Reason)
}
