package testsupport

import (
	"path/filepath"
	"testing"

	"artref/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Source, destination, catalog and state paths all live under one temp root.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Catalog.Input = filepath.Join(base, "master_studies_data.csv")
	cfgVal.Catalog.Output = filepath.Join(base, "masterstudy.json")
	cfgVal.Thumbnails.SourceDir = filepath.Join(base, "images")
	cfgVal.Thumbnails.DestinationDir = filepath.Join(base, "thumbnails")
	cfgVal.Manifest.Path = filepath.Join(base, "state", "manifest.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithManifest enables the checksum ledger on the test config.
func WithManifest() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Manifest.Enabled = true
	}
}

// WithThumbnailSize overrides the thumbnail width and quality.
func WithThumbnailSize(width, quality int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Thumbnails.Width = width
		b.cfg.Thumbnails.Quality = quality
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
