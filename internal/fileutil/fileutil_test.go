package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAtomicReplacesContent(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.json")

	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := writeBytes(dst, []byte("new content")); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new content" {
		t.Fatalf("content mismatch: got %q", got)
	}
	assertNoTempFiles(t, dir)
}

func TestWriteAtomicLeavesNoArtifactOnFailure(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "thumb.webp")

	boom := errors.New("encode failed")
	err := WriteAtomic(dst, 0o644, func(w io.Writer) error {
		if _, err := w.Write([]byte("partial")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected encode error, got %v", err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatalf("expected no destination file, stat err=%v", err)
	}
	assertNoTempFiles(t, dir)
}

func TestWriteAtomicKeepsExistingFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "thumb.webp")
	if err := os.WriteFile(dst, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	_ = WriteAtomic(dst, 0o644, func(io.Writer) error { return errors.New("nope") })

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "previous" {
		t.Fatalf("expected previous content to survive, got %q", got)
	}
}

func TestWriteAtomicRequiresParentDirectory(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "missing", "out.bin")
	if err := writeBytes(dst, []byte("data")); err == nil {
		t.Fatal("expected error when parent directory is missing")
	}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.bin")
	b := filepath.Join(dir, "b.bin")
	if err := os.WriteFile(a, []byte("same"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("same"), 0o644); err != nil {
		t.Fatal(err)
	}

	hashA, err := HashFile(a)
	if err != nil {
		t.Fatal(err)
	}
	hashB, err := HashFile(b)
	if err != nil {
		t.Fatal(err)
	}
	if hashA != hashB {
		t.Fatalf("expected equal hashes, got %s and %s", hashA, hashB)
	}
	if len(hashA) != 64 {
		t.Fatalf("expected hex sha256, got %q", hashA)
	}

	if err := os.WriteFile(b, []byte("different"), 0o644); err != nil {
		t.Fatal(err)
	}
	hashB, err = HashFile(b)
	if err != nil {
		t.Fatal(err)
	}
	if hashA == hashB {
		t.Fatal("expected different hashes after content change")
	}
}

func writeBytes(path string, data []byte) error {
	return WriteAtomic(path, 0o644, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) != ".webp" && filepath.Ext(entry.Name()) != ".json" {
			t.Fatalf("unexpected leftover file %q", entry.Name())
		}
	}
}
