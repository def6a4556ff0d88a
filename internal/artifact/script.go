// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package artifact

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/pdiddy/powerdms-catalog/internal/filename"
	"github.com/pdiddy/powerdms-catalog/internal/site"
	"github.com/pdiddy/powerdms-catalog/pkg/types"
)

// DownloadPath returns the path, relative to the script's working
// directory, that the script downloads doc to.
func DownloadPath(downloadDir string, doc types.Document) string {
	return path.Join(downloadDir, filename.Safe(doc.Name)+".pdf")
}

// WriteScript writes a POSIX sh script that creates the download directory
// and fetches each document with wget. Documents without a usable URL get
// a skip comment instead of a download line.
func WriteScript(w io.Writer, ref types.SiteReference, cat types.Catalog, userAgent string) error {
	if userAgent == "" {
		userAgent = types.DefaultScriptUserAgent
	}
	dir := site.Artifacts(ref).DownloadDir

	ew := &errWriter{w: w}
	ew.printf("#!/bin/sh\n")
	ew.printf("# Auto-generated PowerDMS download script\n")
	ew.printf("# Source: %s\n\n", comment(ref.APIEndpoint))
	ew.printf("# Create the download directory if it doesn't exist\n")
	ew.printf("mkdir -p %s\n\n", shellescape.Quote(dir))

	for _, doc := range cat {
		if !doc.HasURL() {
			ew.printf("# SKIPPING: No publicUrl found for '%s'\n\n", comment(doc.Name))
			continue
		}
		ew.printf("echo %s\n", shellescape.Quote("Downloading: "+doc.Name))
		ew.printf("wget -U %s --no-check-certificate -O %s %s\n\n",
			shellescape.Quote(userAgent),
			shellescape.Quote(DownloadPath(dir, doc)),
			shellescape.Quote(strings.TrimSpace(doc.PublicURL)))
	}
	return ew.err
}

// comment flattens s onto one line so it cannot escape a shell comment.
func comment(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

// errWriter keeps the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
