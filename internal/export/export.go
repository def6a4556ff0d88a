// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes snapshots of a fetched catalog as YAML, JSON, or
// rows in a SQLite database.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/powerdms-catalog/internal/artifact"
	"github.com/pdiddy/powerdms-catalog/internal/site"
	"github.com/pdiddy/powerdms-catalog/pkg/types"
)

// Entry is one document in a snapshot, with the file name the download
// script would give it.
type Entry struct {
	Position     int    `json:"position" yaml:"position"`
	Name         string `json:"name" yaml:"name"`
	URL          string `json:"url" yaml:"url"`
	Filename     string `json:"filename,omitempty" yaml:"filename,omitempty"`
	DownloadPath string `json:"download_path,omitempty" yaml:"download_path,omitempty"`
	Skipped      bool   `json:"skipped" yaml:"skipped"`
}

// Snapshot is a catalog captured at a point in time.
type Snapshot struct {
	Site      types.SiteReference `json:"site" yaml:"site"`
	FetchedAt time.Time           `json:"fetched_at" yaml:"fetched_at"`
	Documents int                 `json:"documents" yaml:"documents"`
	Downloads int                 `json:"downloads" yaml:"downloads"`
	Entries   []Entry             `json:"entries" yaml:"entries"`
}

// NewSnapshot projects cat into a Snapshot taken at fetchedAt.
func NewSnapshot(ref types.SiteReference, cat types.Catalog, fetchedAt time.Time) Snapshot {
	dir := site.Artifacts(ref).DownloadDir
	snap := Snapshot{
		Site:      ref,
		FetchedAt: fetchedAt.UTC(),
		Documents: len(cat),
		Downloads: cat.Downloadable(),
		Entries:   make([]Entry, len(cat)),
	}
	for i, d := range cat {
		e := Entry{Position: i + 1, Name: d.Name, URL: d.PublicURL, Skipped: !d.HasURL()}
		if !e.Skipped {
			e.DownloadPath = artifact.DownloadPath(dir, d)
			e.Filename = path.Base(e.DownloadPath)
		}
		snap.Entries[i] = e
	}
	return snap
}

// DefaultPath returns "{site}_documents<ext>" inside dir.
func DefaultPath(ref types.SiteReference, format types.ExportFormat, dir string) string {
	return filepath.Join(dir, ref.SiteName+"_documents"+format.Extension())
}

// WriteYAML writes snap to path as YAML.
func WriteYAML(path string, snap Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteJSON writes snap to path as indented JSON.
func WriteJSON(path string, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
