// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/powerdms-catalog/internal/catalog"
	"github.com/pdiddy/powerdms-catalog/internal/export"
	"github.com/pdiddy/powerdms-catalog/internal/httputil"
	"github.com/pdiddy/powerdms-catalog/internal/scrape"
	"github.com/pdiddy/powerdms-catalog/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export <url>",
	Short: "Save a snapshot of a site's catalog as YAML, JSON, or SQLite",
	Long: `Export fetches the public document list of a PowerDMS site and writes
it as a snapshot that includes, for every document, the file name the
download script would use. The sqlite format appends the snapshot as a new
run, so repeated exports build a history of the catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "yaml", "snapshot format: yaml, json, or sqlite")
	exportCmd.Flags().String("out", "", "output path (default: <site>_documents.<ext>)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	cfg := types.ExportConfig{
		HTTPConfig: httpConfig(),
		Format:     types.ExportFormat(format),
		OutputPath: out,
	}
	if err := validateFormat(cfg.Format); err != nil {
		return err
	}
	cmd.SilenceUsage = true

	logger := newLogger(cmd.ErrOrStderr(), viper.GetBool("verbose"))
	client := httputil.NewClient(cfg.HTTPConfig)
	return runExportWith(cmd.Context(), client, args[0], cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger, time.Now)
}

func validateFormat(f types.ExportFormat) error {
	switch f {
	case types.ExportYAML, types.ExportJSON, types.ExportSQLite:
		return nil
	default:
		return fmt.Errorf("unsupported format %q: use yaml, json, or sqlite", f)
	}
}

// runExportWith is the testable core of the export command. Diagnostic
// files land next to the output path.
func runExportWith(ctx context.Context, client *http.Client, rawURL string, cfg types.ExportConfig, stdout, stderr io.Writer, logger *slog.Logger, now func() time.Time) error {
	outDir := "."
	if cfg.OutputPath != "" {
		outDir = filepath.Dir(cfg.OutputPath)
	}

	scrapeCfg := types.ScrapeConfig{HTTPConfig: cfg.HTTPConfig, OutputDir: outDir}
	res, cat, err := scrape.Fetch(ctx, client, rawURL, scrapeCfg, stdout, logger)
	switch {
	case err == nil:
	case scrape.IsEmpty(err):
		fmt.Fprintf(stdout, "%s\n", catalog.Describe(err))
		return nil
	default:
		reportFailure(stderr, res, err)
		return err
	}

	path := cfg.OutputPath
	if path == "" {
		path = export.DefaultPath(res.Site, cfg.Format, outDir)
	}
	snap := export.NewSnapshot(res.Site, cat, now())

	switch cfg.Format {
	case types.ExportJSON:
		err = export.WriteJSON(path, snap)
	case types.ExportSQLite:
		err = saveSnapshot(ctx, path, snap, stdout)
	default:
		err = export.WriteYAML(path, snap)
	}
	if err != nil {
		return fmt.Errorf("exporting to %s: %w", path, err)
	}

	fmt.Fprintf(stdout, "\nExported %d document(s) to %s\n", snap.Documents, path)
	return nil
}

// saveSnapshot appends snap to the store at path and reports what changed
// since the site's previous run.
func saveSnapshot(ctx context.Context, path string, snap export.Snapshot, w io.Writer) error {
	store, err := export.OpenStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	siteName := snap.Site.SiteName
	prev, err := store.Latest(ctx, siteName)
	switch {
	case errors.Is(err, export.ErrNoSnapshot):
		fmt.Fprintf(w, "\n-> First snapshot stored for %s.\n", siteName)
	case err != nil:
		return err
	default:
		reportChange(w, prev, export.Diff(prev, snap))
	}

	runID, err := store.Save(ctx, snap)
	if err != nil {
		return err
	}
	runs, err := store.Runs(ctx, siteName)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "   Stored run %s (%d run(s) for %s)\n", runID, runs, siteName)
	return nil
}

func reportChange(w io.Writer, prev export.Snapshot, c export.Change) {
	since := prev.FetchedAt.Format(time.RFC3339)
	if c.Empty() {
		fmt.Fprintf(w, "\n-> No changes since %s.\n", since)
		return
	}
	fmt.Fprintf(w, "\n-> Since %s: %d added, %d removed.\n", since, len(c.Added), len(c.Removed))
	for _, e := range c.Added {
		fmt.Fprintf(w, "   + %s\n", e.Name)
	}
	for _, e := range c.Removed {
		fmt.Fprintf(w, "   - %s\n", e.Name)
	}
}
