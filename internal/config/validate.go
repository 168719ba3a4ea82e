package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateThumbnails(); err != nil {
		return err
	}
	if err := c.validateManifest(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.Input == "" {
		return errors.New("catalog.input must be set")
	}
	if c.Catalog.Output == "" {
		return errors.New("catalog.output must be set")
	}
	if c.Catalog.Input == c.Catalog.Output {
		return errors.New("catalog.output must differ from catalog.input")
	}
	return nil
}

func (c *Config) validateThumbnails() error {
	return ValidateThumbnailSettings(c.Thumbnails)
}

// ValidateThumbnailSettings checks thumbnail settings after CLI overrides have
// been applied.
func ValidateThumbnailSettings(t Thumbnails) error {
	if t.Width <= 0 {
		return errors.New("thumbnails.width must be positive")
	}
	if t.Quality < 0 || t.Quality > maxWebPQuality {
		return fmt.Errorf("thumbnails.quality must be between 0 and %d", maxWebPQuality)
	}
	if t.Method < 0 || t.Method > maxWebPMethod {
		return fmt.Errorf("thumbnails.method must be between 0 and %d", maxWebPMethod)
	}
	if len(t.Extensions) == 0 {
		return errors.New("thumbnails.extensions must include at least one extension")
	}
	for _, pattern := range t.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("thumbnails.exclude: invalid pattern %q", pattern)
		}
	}
	return nil
}

func (c *Config) validateManifest() error {
	if c.Manifest.Enabled && strings.TrimSpace(c.Manifest.Path) == "" {
		return errors.New("manifest.path must be set when manifest.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}
