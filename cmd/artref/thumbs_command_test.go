package main

import (
	"encoding/json"
	"errors"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "golang.org/x/image/webp"

	"artref/internal/testsupport"
	"artref/internal/thumbs"
)

func TestThumbsMissingSourceFails(t *testing.T) {
	env := setupCLITestEnv(t)
	missing := filepath.Join(env.baseDir, "no-such-images")

	out, _, err := runCLI(t, []string{"thumbs", "--src", missing}, env.configPath)
	if !errors.Is(err, thumbs.ErrSourceMissing) {
		t.Fatalf("expected missing source error, got %v", err)
	}
	resolved, resolveErr := thumbs.ResolveRoot(missing)
	if resolveErr != nil {
		t.Fatal(resolveErr)
	}
	requireContains(t, err.Error(), "source folder not found: "+resolved)
	if strings.Contains(out, "DONE") {
		t.Fatalf("expected no summary, got %q", out)
	}
	if _, err := os.Stat(env.cfg.Thumbnails.DestinationDir); !os.IsNotExist(err) {
		t.Fatalf("expected destination untouched, stat err=%v", err)
	}
}

func TestThumbsMirrorsTreeAndSkipsOnRerun(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithThumbnailSize(40, 80))
	src := env.cfg.Thumbnails.SourceDir
	testsupport.WriteGradient(t, filepath.Join(src, "a", "one.png"), 100, 50)
	testsupport.WriteGradient(t, filepath.Join(src, "two.jpg"), 60, 120)
	testsupport.WriteFile(t, filepath.Join(src, "notes.txt"), 16)

	out, _, err := runCLI(t, []string{"thumbs"}, env.configPath)
	if err != nil {
		t.Fatalf("thumbs: %v", err)
	}
	requireContains(t, out, "DONE")
	requireContains(t, out, "Generated: 2")
	requireContains(t, out, "Failed: 0")
	requireContains(t, out, "✓ ")

	dst := filepath.Join(env.cfg.Thumbnails.DestinationDir, "a", "one.webp")
	f, err := os.Open(dst)
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if format != "webp" || cfg.Width != 40 || cfg.Height != 20 {
		t.Fatalf("unexpected thumbnail %s %dx%d", format, cfg.Width, cfg.Height)
	}

	out, _, err = runCLI(t, []string{"thumbs"}, env.configPath)
	if err != nil {
		t.Fatalf("thumbs rerun: %v", err)
	}
	requireContains(t, out, "Generated: 0")
	requireContains(t, out, "Skipped: 2")
}

func TestThumbsFollowsSymlinkedSourceFolder(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithThumbnailSize(16, 70))
	library := filepath.Join(env.baseDir, "library")
	testsupport.WriteGradient(t, filepath.Join(library, "nested", "c.png"), 32, 32)
	link := filepath.Join(env.baseDir, "linked-images")
	if err := os.Symlink(library, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	out, _, err := runCLI(t, []string{"thumbs", "--src", link}, env.configPath)
	if err != nil {
		t.Fatalf("thumbs: %v", err)
	}
	requireContains(t, out, "Generated: 1")
	if _, err := os.Stat(filepath.Join(env.cfg.Thumbnails.DestinationDir, "nested", "c.webp")); err != nil {
		t.Fatalf("expected mirrored thumbnail: %v", err)
	}
}

func TestThumbsReportsCorruptFileAndContinues(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithThumbnailSize(32, 70))
	src := env.cfg.Thumbnails.SourceDir
	testsupport.WriteGradient(t, filepath.Join(src, "good.png"), 64, 64)
	bad := filepath.Join(src, "bad.png")
	testsupport.WriteFile(t, bad, 128)

	out, _, err := runCLI(t, []string{"thumbs"}, env.configPath)
	if err != nil {
		t.Fatalf("per-file failures must not fail the run: %v", err)
	}
	requireContains(t, out, "✗ ERROR: "+bad)
	requireContains(t, out, "Generated: 1")
	requireContains(t, out, "Failed: 1")
}

func TestThumbsPlanJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteGradient(t, filepath.Join(env.cfg.Thumbnails.SourceDir, "p.png"), 20, 20)

	out, _, err := runCLI(t, []string{"thumbs", "plan", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("thumbs plan: %v", err)
	}
	var plan struct {
		Pending []struct {
			Reason      string `json:"reason"`
			Destination string `json:"destination"`
		} `json:"pending"`
		Current int `json:"current"`
	}
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("decode plan: %v (%q)", err, out)
	}
	if len(plan.Pending) != 1 || plan.Pending[0].Reason != thumbs.ReasonMissing {
		t.Fatalf("unexpected plan %+v", plan)
	}
	if _, err := os.Stat(plan.Pending[0].Destination); !os.IsNotExist(err) {
		t.Fatalf("plan must not write thumbnails, stat err=%v", err)
	}
}

func TestThumbsChecksumRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithThumbnailSize(24, 60))
	testsupport.WriteGradient(t, filepath.Join(env.cfg.Thumbnails.SourceDir, "h.png"), 48, 48)

	out, _, err := runCLI(t, []string{"thumbs", "history"}, env.configPath)
	if err != nil {
		t.Fatalf("thumbs history: %v", err)
	}
	requireContains(t, out, "No runs recorded")

	if _, _, err := runCLI(t, []string{"thumbs", "--checksum"}, env.configPath); err != nil {
		t.Fatalf("thumbs --checksum: %v", err)
	}

	out, _, err = runCLI(t, []string{"thumbs", "history"}, env.configPath)
	if err != nil {
		t.Fatalf("thumbs history: %v", err)
	}
	requireContains(t, out, "completed")
	requireContains(t, out, env.cfg.Thumbnails.DestinationDir)
}

func TestThumbsRejectsInvalidQuality(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"thumbs", "--quality", "101"}, env.configPath); err == nil {
		t.Fatal("expected error for quality 101")
	}
}
