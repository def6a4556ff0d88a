// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

const (
	// DefaultTimeout bounds the catalog request.
	DefaultTimeout = 45 * time.Second

	// DefaultUserAgent identifies the fetcher as a desktop browser. PowerDMS
	// rejects requests carrying default client identifiers.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// DefaultScriptUserAgent is passed to wget in the generated script.
	DefaultScriptUserAgent = "Mozilla/5.0"
)

// HTTPConfig holds the settings for the catalog request.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with the catalog request.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// WithDefaults returns a copy with zero fields replaced by their defaults.
func (c HTTPConfig) WithDefaults() HTTPConfig {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	return c
}

// ScrapeConfig holds settings for generating the index and download script.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputDir is where the index, script and diagnostic files are written
	// (default ".").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ScriptUserAgent is the User-Agent wget sends from the generated script.
	ScriptUserAgent string `json:"script_user_agent" yaml:"script_user_agent"`
}

// WithDefaults returns a copy with zero fields replaced by their defaults.
func (c ScrapeConfig) WithDefaults() ScrapeConfig {
	c.HTTPConfig = c.HTTPConfig.WithDefaults()
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.ScriptUserAgent == "" {
		c.ScriptUserAgent = DefaultScriptUserAgent
	}
	return c
}

// ExportFormat selects the catalog snapshot format.
type ExportFormat string

const (
	ExportYAML   ExportFormat = "yaml"
	ExportJSON   ExportFormat = "json"
	ExportSQLite ExportFormat = "sqlite"
)

// Extension returns the file extension used for the format.
func (f ExportFormat) Extension() string {
	switch f {
	case ExportJSON:
		return ".json"
	case ExportSQLite:
		return ".db"
	default:
		return ".yaml"
	}
}

// ExportConfig holds settings for the export command.
type ExportConfig struct {
	HTTPConfig `yaml:",inline"`

	// Format selects the snapshot format: yaml, json, or sqlite.
	Format ExportFormat `json:"format" yaml:"format"`

	// OutputPath overrides the default "{site}_documents.<ext>" path.
	OutputPath string `json:"output_path" yaml:"output_path"`
}
