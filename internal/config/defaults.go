package config

const (
	defaultLogDir         = "~/.local/share/artref/logs"
	defaultStateDir       = "~/.local/share/artref"
	defaultCatalogInput   = "master_studies_data.ods"
	defaultCatalogOutput  = "masterstudy.json"
	defaultSourceDir      = "images"
	defaultDestinationDir = "thumbnails"
	defaultThumbWidth     = 480
	defaultThumbQuality   = 85
	defaultThumbMethod    = 6
	defaultManifestPath   = "~/.local/share/artref/manifest.db"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	maxWebPMethod         = 6
	maxWebPQuality        = 100
	envLogLevel           = "ARTREF_LOG_LEVEL"
	envLogFormat          = "ARTREF_LOG_FORMAT"
	envManifest           = "ARTREF_MANIFEST"
)

// DefaultExtensions lists the source image extensions picked up by the mirror.
func DefaultExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".webp", ".tif", ".tiff"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Catalog: Catalog{
			Input:  defaultCatalogInput,
			Output: defaultCatalogOutput,
		},
		Thumbnails: Thumbnails{
			SourceDir:      defaultSourceDir,
			DestinationDir: defaultDestinationDir,
			Width:          defaultThumbWidth,
			Quality:        defaultThumbQuality,
			Method:         defaultThumbMethod,
			Extensions:     DefaultExtensions(),
		},
		Manifest: Manifest{
			Path: defaultManifestPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
