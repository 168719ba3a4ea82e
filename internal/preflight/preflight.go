package preflight

import (
	"context"
	"path/filepath"

	"artref/internal/config"
)

// MinFreeBytes is the free space below which the destination check warns.
const MinFreeBytes uint64 = 512 << 20

// Result reports the outcome of a single preflight check. A warning passes
// but deserves attention.
type Result struct {
	Name    string
	Passed  bool
	Warning bool
	Detail  string
}

// RunAll executes all applicable preflight checks for the given config.
// The manifest check only runs when the manifest is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckReadableFile("Catalog input", cfg.Catalog.Input))
	results = append(results, CheckWritableTarget("Catalog output", filepath.Dir(cfg.Catalog.Output)))
	results = append(results, CheckReadableDirectory("Thumbnail source", cfg.Thumbnails.SourceDir))
	results = append(results, CheckWritableTarget("Thumbnail destination", cfg.Thumbnails.DestinationDir))
	results = append(results, CheckFreeSpace("Destination free space", cfg.Thumbnails.DestinationDir, MinFreeBytes))
	results = append(results, CheckWritableTarget("State directory", cfg.Paths.StateDir))

	if cfg.Manifest.Enabled {
		results = append(results, CheckWritableTarget("Manifest", filepath.Dir(cfg.Manifest.Path)))
	}
	if err := ctx.Err(); err != nil {
		results = append(results, Result{Name: "Preflight", Detail: err.Error()})
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
