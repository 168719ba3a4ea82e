package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"artref/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckWritableTarget_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thumbnails", "nested")
	result := CheckWritableTarget("dst", path)
	if !result.Passed || !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("expected pass for creatable dir, got %+v", result)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("check must not create the directory")
	}
}

func TestCheckWritableTarget_UnderFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckWritableTarget("dst", filepath.Join(f, "sub")); result.Passed {
		t.Fatalf("expected failure when parent is a file, got %+v", result)
	}
}

func TestCheckReadableFile(t *testing.T) {
	dir := t.TempDir()
	csv := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(csv, []byte("id\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckReadableFile("input", csv); !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}

	numbers := filepath.Join(dir, "data.numbers")
	if err := os.WriteFile(numbers, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckReadableFile("input", numbers); result.Passed {
		t.Fatal("expected failure for unsupported format")
	}
	if result := CheckReadableFile("input", filepath.Join(dir, "missing.ods")); result.Passed {
		t.Fatal("expected failure for missing file")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("space", filepath.Join(dir, "not-yet"), 0); !result.Passed || result.Warning {
		t.Fatalf("expected clean pass with zero threshold, got %+v", result)
	}
	result := CheckFreeSpace("space", dir, ^uint64(0))
	if !result.Passed || !result.Warning {
		t.Fatalf("expected warning with huge threshold, got %+v", result)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[uint64]string{
		512:       "512 B",
		1536:      "1.5 KiB",
		512 << 20: "512.0 MiB",
	}
	for in, want := range tests {
		if got := FormatBytes(in); got != want {
			t.Errorf("FormatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.MkdirAll(cfg.Thumbnails.SourceDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.Catalog.Input, []byte("id\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), cfg)
	if len(results) != 6 {
		t.Fatalf("expected 6 checks without manifest, got %d", len(results))
	}
	if Failed(results) {
		t.Fatalf("expected all checks to pass, got %+v", results)
	}

	cfg.Manifest.Enabled = true
	if err := os.RemoveAll(cfg.Thumbnails.SourceDir); err != nil {
		t.Fatal(err)
	}
	results = RunAll(context.Background(), cfg)
	if len(results) != 7 {
		t.Fatalf("expected manifest check, got %d results", len(results))
	}
	if !Failed(results) {
		t.Fatal("expected failure for missing source directory")
	}
}
