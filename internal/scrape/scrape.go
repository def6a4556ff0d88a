// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape runs the full catalog pipeline: resolve the site URL, fetch
// the document list, and write the CSV index and download script.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/pdiddy/powerdms-catalog/internal/artifact"
	"github.com/pdiddy/powerdms-catalog/internal/catalog"
	"github.com/pdiddy/powerdms-catalog/internal/site"
	"github.com/pdiddy/powerdms-catalog/pkg/types"
)

// Result summarizes one run. Fields are filled as far as the run got, so a
// failed run still reports the site it resolved and any diagnostic file.
type Result struct {
	Site       types.SiteReference   `json:"site"`
	Artifacts  types.OutputArtifacts `json:"artifacts"`
	Documents  int                   `json:"documents"`
	Downloads  int                   `json:"downloads"`
	Skipped    int                   `json:"skipped"`
	Diagnostic string                `json:"diagnostic,omitempty"`
}

// Run resolves rawURL, fetches its catalog with client and writes the
// artifacts into cfg.OutputDir. Progress lines go to w. Every failure is
// returned unrecovered; malformed and unexpected-shape responses are saved
// to a diagnostic file first. An empty catalog returns
// catalog.ErrEmptyCatalog and writes nothing.
func Run(ctx context.Context, client *http.Client, rawURL string, cfg types.ScrapeConfig, w io.Writer, logger *slog.Logger) (Result, error) {
	cfg = cfg.WithDefaults()
	if logger == nil {
		logger = discardLogger()
	}

	res, cat, err := Fetch(ctx, client, rawURL, cfg, w, logger)
	if err != nil {
		return res, err
	}

	paths := artifact.Paths(res.Site, cfg.OutputDir)
	for _, p := range []string{paths.IndexPath, paths.ScriptPath} {
		if _, err := os.Stat(p); err == nil {
			logger.Info("replacing existing artifact", "path", p)
		}
	}

	fmt.Fprintf(w, "\n-> Writing document list to '%s' and download script '%s'...\n", paths.IndexPath, paths.ScriptPath)
	written, err := artifact.Write(res.Site, cat, cfg)
	if err != nil {
		return res, err
	}
	res.Artifacts = written
	fmt.Fprintf(w, "   Wrote %d download(s), skipped %d without a public URL.\n", res.Downloads, res.Skipped)

	return res, nil
}

// Fetch runs the resolve and fetch stages of Run and returns the catalog
// without writing artifacts. Diagnostic files still go to cfg.OutputDir.
func Fetch(ctx context.Context, client *http.Client, rawURL string, cfg types.ScrapeConfig, w io.Writer, logger *slog.Logger) (Result, types.Catalog, error) {
	cfg = cfg.WithDefaults()
	if logger == nil {
		logger = discardLogger()
	}

	var res Result
	fmt.Fprintf(w, "-> Starting scrape for: %s\n", rawURL)

	ref, err := site.Resolve(rawURL)
	if err != nil {
		return res, nil, err
	}
	res.Site = ref
	fmt.Fprintf(w, "   Site Name: %s\n", ref.SiteName)
	fmt.Fprintf(w, "   API Endpoint: %s\n", ref.APIEndpoint)

	fmt.Fprintf(w, "\n-> Fetching document list from API...\n")
	logger.Debug("fetching catalog", "endpoint", ref.APIEndpoint, "timeout", cfg.Timeout, "user_agent", cfg.UserAgent)

	cat, err := catalog.Fetch(ctx, client, ref, cfg.HTTPConfig)
	if err != nil {
		if p, derr := artifact.WriteDiagnostic(cfg.OutputDir, err); derr != nil {
			logger.Warn("could not save diagnostic", "error", derr)
		} else if p != "" {
			res.Diagnostic = p
			logger.Debug("saved diagnostic", "path", p)
		}
		return res, nil, err
	}

	res.Documents = len(cat)
	res.Downloads = cat.Downloadable()
	res.Skipped = res.Documents - res.Downloads
	fmt.Fprintf(w, "   Found %d document entries.\n", res.Documents)
	return res, cat, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// IsEmpty reports whether err is the informational empty-catalog outcome.
func IsEmpty(err error) bool {
	return errors.Is(err, catalog.ErrEmptyCatalog)
}

// Summary writes the closing instructions for a successful run.
func Summary(w io.Writer, res Result) {
	rule := "=================================================="
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintln(w, "ALL DONE!")
	fmt.Fprintf(w, "Index:  %s\n", res.Artifacts.IndexPath)
	fmt.Fprintf(w, "Script: %s\n", res.Artifacts.ScriptPath)
	fmt.Fprintln(w, "To download the files, run these commands in your terminal:")
	fmt.Fprintf(w, "1. chmod +x %s\n", res.Artifacts.ScriptPath)
	fmt.Fprintf(w, "2. %s\n", scriptInvocation(res.Artifacts.ScriptPath))
	fmt.Fprintln(w, rule)
}

func scriptInvocation(p string) string {
	if len(p) > 0 && (p[0] == '/' || p[0] == '.') {
		return p
	}
	return "./" + p
}
