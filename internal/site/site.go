// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package site resolves a public PowerDMS URL into a site reference and the
// JSON endpoint that lists the site's documents.
package site

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/powerdms-catalog/pkg/types"
)

// hostingDomain is the domain PowerDMS serves public sites from.
const hostingDomain = "powerdms.com"

// ExampleURL is shown to operators when a URL is rejected.
const ExampleURL = "https://public.powerdms.com/MassStatePolice/tree/147101"

// ErrInvalidSiteURL is returned when a URL cannot be turned into a
// SiteReference.
type ErrInvalidSiteURL struct {
	URL    string
	Reason string
	Cause  error
}

func (e *ErrInvalidSiteURL) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("site: invalid PowerDMS URL %q: %s: %v", e.URL, e.Reason, e.Cause)
	}
	return fmt.Sprintf("site: invalid PowerDMS URL %q: %s", e.URL, e.Reason)
}

func (e *ErrInvalidSiteURL) Unwrap() error { return e.Cause }

// Resolve parses raw and derives the site name and API endpoint. The host
// must be powerdms.com or one of its subdomains and the path must carry at
// least one segment, the first of which names the site.
func Resolve(raw string) (types.SiteReference, error) {
	raw = strings.TrimSpace(raw)

	u, err := url.Parse(raw)
	if err != nil {
		return types.SiteReference{}, &ErrInvalidSiteURL{URL: raw, Reason: "cannot parse URL", Cause: err}
	}
	if u.Host == "" {
		return types.SiteReference{}, &ErrInvalidSiteURL{URL: raw, Reason: "missing host"}
	}
	if !IsHostingDomain(u.Hostname()) {
		return types.SiteReference{}, &ErrInvalidSiteURL{URL: raw, Reason: fmt.Sprintf("host %q is not a %s site", u.Host, hostingDomain)}
	}

	segments := Segments(u.EscapedPath())
	if len(segments) == 0 {
		return types.SiteReference{}, &ErrInvalidSiteURL{URL: raw, Reason: "missing site name in path"}
	}

	name := segments[0]
	return types.SiteReference{
		Domain:      u.Host,
		SiteName:    name,
		APIEndpoint: Endpoint(u.Host, name),
	}, nil
}

// IsHostingDomain reports whether host is powerdms.com or a subdomain of it.
func IsHostingDomain(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	return host == hostingDomain || strings.HasSuffix(host, "."+hostingDomain)
}

// Segments splits an escaped URL path into its non-empty segments.
func Segments(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Endpoint returns the document list URL for a site on host.
func Endpoint(host, siteName string) string {
	return fmt.Sprintf("https://%s/%s/documents", host, siteName)
}

// Artifacts returns the file names derived from the site name.
func Artifacts(ref types.SiteReference) types.OutputArtifacts {
	return types.OutputArtifacts{
		IndexPath:   ref.SiteName + "_documents.csv",
		ScriptPath:  "download_" + ref.SiteName + ".sh",
		DownloadDir: "downloaded_" + ref.SiteName,
	}
}
