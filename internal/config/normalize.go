package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	if err := c.normalizeThumbnails(); err != nil {
		return err
	}
	if err := c.normalizeManifest(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() error {
	var err error
	c.Catalog.Input = strings.TrimSpace(c.Catalog.Input)
	if c.Catalog.Input == "" {
		c.Catalog.Input = defaultCatalogInput
	}
	if c.Catalog.Input, err = expandPath(c.Catalog.Input); err != nil {
		return fmt.Errorf("catalog.input: %w", err)
	}
	c.Catalog.Output = strings.TrimSpace(c.Catalog.Output)
	if c.Catalog.Output == "" {
		c.Catalog.Output = defaultCatalogOutput
	}
	if c.Catalog.Output, err = expandPath(c.Catalog.Output); err != nil {
		return fmt.Errorf("catalog.output: %w", err)
	}
	c.Catalog.Sheet = strings.TrimSpace(c.Catalog.Sheet)
	return nil
}

func (c *Config) normalizeThumbnails() error {
	var err error
	c.Thumbnails.SourceDir = strings.TrimSpace(c.Thumbnails.SourceDir)
	if c.Thumbnails.SourceDir == "" {
		c.Thumbnails.SourceDir = defaultSourceDir
	}
	if c.Thumbnails.SourceDir, err = expandPath(c.Thumbnails.SourceDir); err != nil {
		return fmt.Errorf("thumbnails.source_dir: %w", err)
	}
	c.Thumbnails.DestinationDir = strings.TrimSpace(c.Thumbnails.DestinationDir)
	if c.Thumbnails.DestinationDir == "" {
		c.Thumbnails.DestinationDir = defaultDestinationDir
	}
	if c.Thumbnails.DestinationDir, err = expandPath(c.Thumbnails.DestinationDir); err != nil {
		return fmt.Errorf("thumbnails.destination_dir: %w", err)
	}
	c.Thumbnails.Extensions = NormalizeExtensions(c.Thumbnails.Extensions)
	if len(c.Thumbnails.Extensions) == 0 {
		c.Thumbnails.Extensions = DefaultExtensions()
	}
	patterns := make([]string, 0, len(c.Thumbnails.Exclude))
	for _, pattern := range c.Thumbnails.Exclude {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		patterns = append(patterns, pattern)
	}
	c.Thumbnails.Exclude = patterns
	return nil
}

func (c *Config) normalizeManifest() error {
	if value, ok := os.LookupEnv(envManifest); ok {
		if enabled, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			c.Manifest.Enabled = enabled
		}
	}
	var err error
	if strings.TrimSpace(c.Manifest.Path) == "" {
		c.Manifest.Path = defaultManifestPath
	}
	if c.Manifest.Path, err = expandPath(c.Manifest.Path); err != nil {
		return fmt.Errorf("manifest.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv(envLogFormat); ok && strings.TrimSpace(value) != "" {
		c.Logging.Format = value
	}
	if value, ok := os.LookupEnv(envLogLevel); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// NormalizeExtensions lower-cases extensions, adds the leading dot, and drops
// blanks and duplicates while keeping the first-seen order.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" || normalized == "." {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
