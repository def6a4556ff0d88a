// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Sentinels substituted for fields missing from a catalog element. They keep
// every Document total so downstream stages never branch on null.
const (
	MissingName = "no-name-found"
	MissingURL  = "no-url-found"
)

// Document is one entry of a PowerDMS public document list. It is a
// read-only projection of the server record.
type Document struct {
	// Name is the document title as published, or MissingName.
	Name string `json:"name" yaml:"name"`

	// PublicURL is the direct download URL, or MissingURL.
	PublicURL string `json:"public_url" yaml:"public_url"`
}

// HasURL reports whether the document carries a URL a downloader can use.
func (d Document) HasURL() bool {
	u := strings.TrimSpace(d.PublicURL)
	return u != "" && u != MissingURL
}

// Catalog is the ordered list of documents returned by one fetch. Order
// follows the response so generated artifacts are deterministic.
type Catalog []Document

// Downloadable returns the number of documents with a usable URL.
func (c Catalog) Downloadable() int {
	n := 0
	for _, d := range c {
		if d.HasURL() {
			n++
		}
	}
	return n
}
