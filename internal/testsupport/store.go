package testsupport

import (
	"testing"

	"artref/internal/config"
	"artref/internal/manifest"
)

// MustOpenManifest opens the ledger configured in cfg and registers cleanup.
func MustOpenManifest(t testing.TB, cfg *config.Config) *manifest.Store {
	t.Helper()

	store, err := manifest.Open(cfg.Manifest.Path)
	if err != nil {
		t.Fatalf("manifest.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
