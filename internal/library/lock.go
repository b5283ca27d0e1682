package library

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"fidelity/internal/config"
)

// AcquireLock takes the library write lock. Mutating runs (add, update, fix,
// import) hold it so two invocations never rewrite checksums concurrently.
// The returned release function is safe to call once.
func AcquireLock(cfg *config.Config) (func(), error) {
	lockPath := filepath.Join(filepath.Dir(cfg.Paths.LibraryDB), "fidelity.lock")
	lock := flock.New(lockPath)

	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire library lock: %w", err)
	}
	if !ok {
		return nil, errors.New("another fidelity run is already modifying the library")
	}
	return func() { _ = lock.Unlock() }, nil
}
