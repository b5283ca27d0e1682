package testsupport

import (
	"context"
	"testing"

	"fidelity/internal/config"
	"fidelity/internal/library"
)

// MustOpenStore opens a library.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// InsertFile adds a catalog record for tests using the provided store.
func InsertFile(t testing.TB, store *library.Store, path string, format library.Format, checksum string) *library.MediaFile {
	t.Helper()

	file, err := store.Insert(context.Background(), path, format, checksum)
	if err != nil {
		t.Fatalf("store.Insert: %v", err)
	}
	return file
}
