// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/powerdms-catalog/internal/catalog"
	"github.com/pdiddy/powerdms-catalog/internal/httputil"
	"github.com/pdiddy/powerdms-catalog/internal/scrape"
	"github.com/pdiddy/powerdms-catalog/internal/site"
	"github.com/pdiddy/powerdms-catalog/pkg/types"
)

func runScrape(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg := scrapeConfig()
	jsonOutput, _ := cmd.Flags().GetBool("json")
	logger := newLogger(cmd.ErrOrStderr(), viper.GetBool("verbose"))
	client := httputil.NewClient(cfg.HTTPConfig)

	return runScrapeWith(cmd.Context(), client, args[0], cfg, jsonOutput, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// runScrapeWith is the testable core of the root command. An empty catalog
// is reported on stdout and is not an error.
func runScrapeWith(ctx context.Context, client *http.Client, rawURL string, cfg types.ScrapeConfig, jsonOutput bool, stdout, stderr io.Writer, logger *slog.Logger) error {
	progress := stdout
	if jsonOutput {
		progress = io.Discard
	}

	res, err := scrape.Run(ctx, client, rawURL, cfg, progress, logger)
	switch {
	case err == nil:
	case scrape.IsEmpty(err):
		if jsonOutput {
			return writeResult(stdout, res)
		}
		fmt.Fprintf(stdout, "%s\n", catalog.Describe(err))
		return nil
	default:
		reportFailure(stderr, res, err)
		return err
	}

	if jsonOutput {
		return writeResult(stdout, res)
	}
	scrape.Summary(stdout, res)
	return nil
}

func writeResult(w io.Writer, res scrape.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// reportFailure prints the operator hints that go with err. The error itself
// is printed by cobra.
func reportFailure(w io.Writer, res scrape.Result, err error) {
	var invalid *site.ErrInvalidSiteURL
	if errors.As(err, &invalid) {
		fmt.Fprintln(w, "! This does not appear to be a valid public PowerDMS URL.")
		fmt.Fprintf(w, "! Example: %s\n", site.ExampleURL)
		return
	}
	if hint := catalog.Describe(err); hint != "" {
		fmt.Fprintf(w, "! %s\n", hint)
	}
	if res.Diagnostic != "" {
		fmt.Fprintf(w, "  Saved server response to '%s' for debugging.\n", res.Diagnostic)
	}
}
