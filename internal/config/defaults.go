package config

const (
	defaultCatalogPath = "~/.local/share/reelcat/videos.db"
	defaultLogDir      = "~/.local/share/reelcat/logs"
	defaultExportDir   = "~/.local/share/reelcat/exports"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"

	// UnknownStorageID is the sentinel storage label used when no medium
	// identifier was supplied or could be inferred.
	UnknownStorageID = "UNKNOWN"
)

// defaultExtensions is the recognized set of video file extensions. Files
// outside this set never reach scanning or classification.
var defaultExtensions = []string{
	".mp4", ".mkv", ".avi", ".mov", ".mpg", ".mpeg",
	".wmv", ".flv", ".webm", ".m4v", ".3gp", ".ts",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CatalogPath: defaultCatalogPath,
			LogDir:      defaultLogDir,
			ExportDir:   defaultExportDir,
		},
		Scan: Scan{
			Extensions:     append([]string(nil), defaultExtensions...),
			IncludeSubdirs: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
