// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SiteReference identifies a public PowerDMS site and its document API.
// It is derived once from the operator's URL and never modified.
type SiteReference struct {
	// Domain is the host the site is served from (e.g. "public.powerdms.com").
	Domain string `json:"domain" yaml:"domain"`

	// SiteName is the first path segment of the site URL (e.g. "MassStatePolice").
	SiteName string `json:"site_name" yaml:"site_name"`

	// APIEndpoint is the JSON document list URL for the site.
	APIEndpoint string `json:"api_endpoint" yaml:"api_endpoint"`
}

// OutputArtifacts names the files derived from a site name. Every field is
// a pure function of SiteReference.SiteName.
type OutputArtifacts struct {
	// IndexPath is the CSV index, "{site}_documents.csv".
	IndexPath string `json:"index_path" yaml:"index_path"`

	// ScriptPath is the download script, "download_{site}.sh".
	ScriptPath string `json:"script_path" yaml:"script_path"`

	// DownloadDir is the directory the script downloads into, "downloaded_{site}".
	DownloadDir string `json:"download_dir" yaml:"download_dir"`
}
