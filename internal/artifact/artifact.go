// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package artifact renders a fetched catalog into the CSV index and the
// download script, and persists diagnostic files for failed fetches.
package artifact

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/powerdms-catalog/internal/site"
	"github.com/pdiddy/powerdms-catalog/pkg/types"
)

// Paths returns the artifact paths for ref inside outputDir. DownloadDir is
// left relative: the script creates it wherever it is run.
func Paths(ref types.SiteReference, outputDir string) types.OutputArtifacts {
	a := site.Artifacts(ref)
	if outputDir == "" {
		outputDir = "."
	}
	a.IndexPath = filepath.Join(outputDir, a.IndexPath)
	a.ScriptPath = filepath.Join(outputDir, a.ScriptPath)
	return a
}

// Write renders the index and the download script for cat. Both files are
// replaced if they exist. The download directory itself is not created.
func Write(ref types.SiteReference, cat types.Catalog, cfg types.ScrapeConfig) (types.OutputArtifacts, error) {
	cfg = cfg.WithDefaults()
	paths := Paths(ref, cfg.OutputDir)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return paths, fmt.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
	}

	if err := writeFileAtomic(paths.IndexPath, func(w io.Writer) error {
		return WriteIndex(w, cat)
	}); err != nil {
		return paths, fmt.Errorf("writing index %s: %w", paths.IndexPath, err)
	}

	if err := writeFileAtomic(paths.ScriptPath, func(w io.Writer) error {
		return WriteScript(w, ref, cat, cfg.ScriptUserAgent)
	}); err != nil {
		return paths, fmt.Errorf("writing script %s: %w", paths.ScriptPath, err)
	}

	return paths, nil
}

// writeFileAtomic renders into a temporary file next to path and renames it
// into place, so an interrupted run never leaves a truncated artifact.
func writeFileAtomic(path string, render func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".powerdms-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	bw := bufio.NewWriter(tmp)
	renderErr := render(bw)
	if renderErr == nil {
		renderErr = bw.Flush()
	}
	if renderErr == nil {
		renderErr = tmp.Chmod(0o644)
	}
	closeErr := tmp.Close()
	if renderErr != nil {
		os.Remove(tmpPath)
		return renderErr
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
