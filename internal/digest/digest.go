// Package digest computes and verifies content fingerprints for catalog files.
//
// A fingerprint is the hex-encoded SHA-256 of the file's full byte content.
// Verification is strict string equality against the stored value; any
// difference is evidence of silent corruption or external modification.
package digest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"fidelity/internal/library"
)

// Mismatch reports a stored checksum that disagrees with the file's current
// content.
type Mismatch struct {
	Path     string
	Stored   string
	Computed string
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("%s: checksum did not match value in library", m.Path)
}

// Compute streams the full file content through SHA-256 and returns the
// hex-encoded digest plus the number of bytes read.
func Compute(path string) (string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	hash := sha256.New()
	n, err := io.Copy(hash, file)
	if err != nil {
		return "", 0, fmt.Errorf("read %s: %w", path, err)
	}
	return hex.EncodeToString(hash.Sum(nil)), n, nil
}

// Verify recomputes the file's fingerprint and compares it to the stored
// checksum. A *Mismatch error means the content changed; other errors are I/O
// failures.
func Verify(file *library.MediaFile) (int64, error) {
	computed, n, err := Compute(file.Path)
	if err != nil {
		return n, err
	}
	if computed != file.Checksum {
		return n, &Mismatch{Path: file.Path, Stored: file.Checksum, Computed: computed}
	}
	return n, nil
}

// Set computes the file's fingerprint, writes it to the record, and persists
// the record through the store. Call this after any operation that changes
// the file's bytes.
func Set(ctx context.Context, store *library.Store, file *library.MediaFile) (int64, error) {
	computed, n, err := Compute(file.Path)
	if err != nil {
		return n, err
	}
	file.Checksum = computed
	if err := store.Update(ctx, file); err != nil {
		return n, fmt.Errorf("store checksum for %s: %w", file.Path, err)
	}
	return n, nil
}
