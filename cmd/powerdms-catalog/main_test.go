// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/powerdms-catalog/internal/export"
	"github.com/pdiddy/powerdms-catalog/internal/scrape"
	"github.com/pdiddy/powerdms-catalog/pkg/types"
)

const siteURL = "https://public.powerdms.com/Agency/tree/147101"

type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.URL.Scheme = rt.target.Scheme
	r.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(r)
}

func testClient(t *testing.T, status int, body string) *http.Client {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	target, err := url.Parse(ts.URL)
	require.NoError(t, err)
	return &http.Client{Transport: rewriteTransport{target: target}}
}

const sampleBody = `{"data":[{"name":"A/B","publicUrl":"https://x/a.pdf"},{"name":"C"}]}`

func TestRunScrapeWith_Success(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	err := runScrapeWith(context.Background(), testClient(t, http.StatusOK, sampleBody), siteURL,
		types.ScrapeConfig{OutputDir: dir}, false, &stdout, &stderr, newLogger(io.Discard, false))
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "ALL DONE!")
	assert.Contains(t, stdout.String(), "chmod +x "+filepath.Join(dir, "download_Agency.sh"))
	assert.FileExists(t, filepath.Join(dir, "Agency_documents.csv"))
	assert.FileExists(t, filepath.Join(dir, "download_Agency.sh"))
	assert.Empty(t, stderr.String())
}

func TestRunScrapeWith_JSON(t *testing.T) {
	dir := t.TempDir()
	var stdout bytes.Buffer

	err := runScrapeWith(context.Background(), testClient(t, http.StatusOK, sampleBody), siteURL,
		types.ScrapeConfig{OutputDir: dir}, true, &stdout, io.Discard, newLogger(io.Discard, false))
	require.NoError(t, err)

	var res scrape.Result
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &res))
	assert.Equal(t, "Agency", res.Site.SiteName)
	assert.Equal(t, 2, res.Documents)
	assert.Equal(t, 1, res.Downloads)
	assert.Equal(t, filepath.Join(dir, "Agency_documents.csv"), res.Artifacts.IndexPath)
}

func TestRunScrapeWith_EmptyIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	var stdout bytes.Buffer

	err := runScrapeWith(context.Background(), testClient(t, http.StatusOK, `{"data":[]}`), siteURL,
		types.ScrapeConfig{OutputDir: dir}, false, &stdout, io.Discard, newLogger(io.Discard, false))
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "No public documents were found")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunScrapeWith_EmptyJSON(t *testing.T) {
	dir := t.TempDir()
	var stdout bytes.Buffer

	err := runScrapeWith(context.Background(), testClient(t, http.StatusOK, `{"data":[]}`), siteURL,
		types.ScrapeConfig{OutputDir: dir}, true, &stdout, io.Discard, newLogger(io.Discard, false))
	require.NoError(t, err)

	var res scrape.Result
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &res))
	assert.Equal(t, "Agency", res.Site.SiteName)
	assert.Zero(t, res.Documents)
	assert.Empty(t, res.Artifacts.IndexPath)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunScrapeWith_InvalidURL(t *testing.T) {
	var stderr bytes.Buffer

	err := runScrapeWith(context.Background(), http.DefaultClient, "https://example.com/Agency",
		types.ScrapeConfig{OutputDir: t.TempDir()}, false, io.Discard, &stderr, newLogger(io.Discard, false))
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "valid public PowerDMS URL")
	assert.Contains(t, stderr.String(), "MassStatePolice")
}

func TestRunScrapeWith_HTTPError(t *testing.T) {
	var stderr bytes.Buffer

	err := runScrapeWith(context.Background(), testClient(t, http.StatusNotFound, "nope"), siteURL,
		types.ScrapeConfig{OutputDir: t.TempDir()}, false, io.Discard, &stderr, newLogger(io.Discard, false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
	assert.Contains(t, stderr.String(), "may be private")
}

func TestRunScrapeWith_MalformedReportsDiagnostic(t *testing.T) {
	dir := t.TempDir()
	var stderr bytes.Buffer

	err := runScrapeWith(context.Background(), testClient(t, http.StatusOK, "<html><title>Blocked</title></html>"), siteURL,
		types.ScrapeConfig{OutputDir: dir}, false, io.Discard, &stderr, newLogger(io.Discard, false))
	require.Error(t, err)
	assert.Contains(t, stderr.String(), `HTML page titled "Blocked"`)
	assert.Contains(t, stderr.String(), filepath.Join(dir, "error_response.html"))
}

func TestRunExportWith_Formats(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	for _, format := range []types.ExportFormat{types.ExportYAML, types.ExportJSON, types.ExportSQLite} {
		t.Run(string(format), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "snap"+format.Extension())
			cfg := types.ExportConfig{Format: format, OutputPath: path}
			var stdout bytes.Buffer

			err := runExportWith(context.Background(), testClient(t, http.StatusOK, sampleBody), siteURL,
				cfg, &stdout, io.Discard, newLogger(io.Discard, false), now)
			require.NoError(t, err)
			assert.FileExists(t, path)
			assert.Contains(t, stdout.String(), "Exported 2 document(s) to "+path)
		})
	}
}

func TestRunExportWith_SQLiteAppendsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	cfg := types.ExportConfig{Format: types.ExportSQLite, OutputPath: path}
	client := testClient(t, http.StatusOK, sampleBody)

	for i := 0; i < 2; i++ {
		at := time.Date(2026, 1, 2+i, 0, 0, 0, 0, time.UTC)
		err := runExportWith(context.Background(), client, siteURL, cfg, io.Discard, io.Discard,
			newLogger(io.Discard, false), func() time.Time { return at })
		require.NoError(t, err)
	}

	store, err := export.OpenStore(path)
	require.NoError(t, err)
	defer store.Close()

	n, err := store.Runs(context.Background(), "Agency")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRunExportWith_SQLiteReportsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	cfg := types.ExportConfig{Format: types.ExportSQLite, OutputPath: path}
	runAt := func(body string, at time.Time) string {
		var stdout bytes.Buffer
		err := runExportWith(context.Background(), testClient(t, http.StatusOK, body), siteURL, cfg,
			&stdout, io.Discard, newLogger(io.Discard, false), func() time.Time { return at })
		require.NoError(t, err)
		return stdout.String()
	}

	first := runAt(sampleBody, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, first, "First snapshot stored for Agency.")
	assert.Contains(t, first, "(1 run(s) for Agency)")

	same := runAt(sampleBody, time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, same, "No changes since 2026-01-02T00:00:00Z.")
	assert.Contains(t, same, "(2 run(s) for Agency)")

	changed := runAt(`{"data":[{"name":"A/B","publicUrl":"https://x/a.pdf"},{"name":"D","publicUrl":"https://x/d.pdf"}]}`,
		time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, changed, "Since 2026-01-03T00:00:00Z: 1 added, 1 removed.")
	assert.Contains(t, changed, "   + D\n")
	assert.Contains(t, changed, "   - C\n")
	assert.Contains(t, changed, "(3 run(s) for Agency)")
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, validateFormat(types.ExportYAML))
	assert.NoError(t, validateFormat(types.ExportJSON))
	assert.NoError(t, validateFormat(types.ExportSQLite))
	assert.Error(t, validateFormat("xml"))
}

func TestScrapeConfig_Defaults(t *testing.T) {
	cfg := scrapeConfig()
	assert.Equal(t, types.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, types.DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, types.DefaultScriptUserAgent, cfg.ScriptUserAgent)
}

func TestScrapeConfig_Env(t *testing.T) {
	t.Setenv("POWERDMS_CATALOG_TIMEOUT", "7s")
	t.Setenv("POWERDMS_CATALOG_OUTPUT_DIR", "out")
	initConfig()

	cfg := scrapeConfig()
	assert.Equal(t, 7*time.Second, cfg.Timeout)
	assert.Equal(t, "out", cfg.OutputDir)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "powerdms-catalog dev\n", out.String())
}
