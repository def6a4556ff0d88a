// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the powerdms-catalog CLI. Given the
// URL of a public PowerDMS site it writes a CSV index of the site's
// documents and a shell script that downloads them.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/powerdms-catalog/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd scrapes the site named by its single argument.
var rootCmd = &cobra.Command{
	Use:   "powerdms-catalog <url>",
	Short: "Export the public document catalog of a PowerDMS site",
	Long: `powerdms-catalog reads the public document list of a PowerDMS site and
writes two files into the output directory:

  <site>_documents.csv   name and URL of every document
  download_<site>.sh     a wget script that downloads every document
                         into downloaded_<site>/

Example:
  powerdms-catalog "https://public.powerdms.com/MassStatePolice/tree/147101"`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./powerdms-catalog.yaml or ~/.config/powerdms-catalog/config.yaml)")
	pf.Duration("timeout", 0, "HTTP request timeout (default 45s)")
	pf.String("user-agent", "", "User-Agent sent to PowerDMS (default: a desktop Chrome string)")
	pf.BoolP("verbose", "v", false, "log request details to stderr")

	rootCmd.Flags().String("output-dir", "", "directory for the index, script and diagnostic files (default \".\")")
	rootCmd.Flags().String("script-user-agent", "", "User-Agent wget sends from the generated script (default \"Mozilla/5.0\")")
	rootCmd.Flags().Bool("json", false, "print the run result as JSON")

	viper.BindPFlag("timeout", pf.Lookup("timeout"))
	viper.BindPFlag("user_agent", pf.Lookup("user-agent"))
	viper.BindPFlag("verbose", pf.Lookup("verbose"))
	viper.BindPFlag("output_dir", rootCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("script_user_agent", rootCmd.Flags().Lookup("script-user-agent"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("powerdms-catalog")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "powerdms-catalog"))
		}
	}

	viper.SetEnvPrefix("POWERDMS_CATALOG")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// httpConfig assembles the request settings from flags, environment and
// config file.
func httpConfig() types.HTTPConfig {
	return types.HTTPConfig{
		Timeout:   viper.GetDuration("timeout"),
		UserAgent: viper.GetString("user_agent"),
	}.WithDefaults()
}

// scrapeConfig assembles the settings for the root command.
func scrapeConfig() types.ScrapeConfig {
	return types.ScrapeConfig{
		HTTPConfig:      httpConfig(),
		OutputDir:       viper.GetString("output_dir"),
		ScriptUserAgent: viper.GetString("script_user_agent"),
	}.WithDefaults()
}

// newLogger returns a text logger on w. Verbose lowers the level to debug.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
