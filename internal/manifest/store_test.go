package manifest_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"artref/internal/manifest"
	"artref/internal/testsupport"
)

func TestOpenAppliesMigrationsIdempotently(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithManifest())
	store := testsupport.MustOpenManifest(t, cfg)
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := manifest.Open(cfg.Manifest.Path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	count, err := reopened.Count(context.Background(), "/thumbs")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty ledger, got %d", count)
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state", "manifest.db")
	store, err := manifest.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	if store.Path() != path {
		t.Fatalf("unexpected path %q", store.Path())
	}
}

func TestRecordAndLookup(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithManifest())
	store := testsupport.MustOpenManifest(t, cfg)
	ctx := context.Background()

	if _, ok, err := store.Lookup(ctx, "/thumbs", "a/b.webp"); err != nil || ok {
		t.Fatalf("expected no entry, got ok=%v err=%v", ok, err)
	}

	generated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := manifest.Entry{DestRoot: "/thumbs", RelPath: "a/b.webp", SourceHash: "abc", Width: 480, Quality: 85, Method: 6, GeneratedAt: generated}
	if err := store.Record(ctx, entry); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, ok, err := store.Lookup(ctx, "/thumbs", "a/b.webp")
	if err != nil || !ok {
		t.Fatalf("expected entry, got ok=%v err=%v", ok, err)
	}
	if !got.Matches("abc", 480, 85, 6) || !got.GeneratedAt.Equal(generated) {
		t.Fatalf("unexpected entry %+v", got)
	}
	if got.Matches("abc", 400, 85, 6) || got.Matches("def", 480, 85, 6) || got.Matches("abc", 480, 85, 4) {
		t.Fatal("expected settings or hash change to break the match")
	}

	entry.SourceHash = "def"
	if err := store.Record(ctx, entry); err != nil {
		t.Fatalf("Record update: %v", err)
	}
	got, _, _ = store.Lookup(ctx, "/thumbs", "a/b.webp")
	if got.SourceHash != "def" {
		t.Fatalf("expected upsert to replace hash, got %q", got.SourceHash)
	}

	if _, ok, _ := store.Lookup(ctx, "/other", "a/b.webp"); ok {
		t.Fatal("entries must be scoped to their destination root")
	}
	if count, _ := store.Count(ctx, "/thumbs"); count != 1 {
		t.Fatalf("expected one entry, got %d", count)
	}
}

func TestRunHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithManifest())
	store := testsupport.MustOpenManifest(t, cfg)
	ctx := context.Background()

	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	if err := store.BeginRun(ctx, "run-1", "/src", "/dst", first); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := store.BeginRun(ctx, "run-2", "/src", "/dst", second); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := store.FinishRun(ctx, manifest.Run{ID: "run-1", Generated: 3, Skipped: 2, Failed: 1, FinishedAt: first.Add(time.Minute)}); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	if err := store.FinishRun(ctx, manifest.Run{ID: "missing"}); err == nil {
		t.Fatal("expected error for unknown run")
	}

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-2" {
		t.Fatalf("expected newest run first, got %+v", runs)
	}
	if runs[0].Status != manifest.RunRunning || !runs[0].FinishedAt.IsZero() {
		t.Fatalf("expected unfinished run, got %+v", runs[0])
	}
	done := runs[1]
	if done.Status != manifest.RunCompleted || done.Generated != 3 || done.Skipped != 2 || done.Failed != 1 {
		t.Fatalf("unexpected finished run %+v", done)
	}

	limited, err := store.ListRuns(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("expected one run with limit, got %d err=%v", len(limited), err)
	}
}
