package verify

import (
	"errors"
	"fmt"
)

// ErrNoCheckers is returned when an integrity-only check is requested but no
// external validator program could be found on PATH.
var ErrNoCheckers = errors.New("no integrity checkers found")

// FailuresError reports severe verification failures: checksum mismatches and
// I/O errors. It carries the count so the command layer can surface a
// distinguished exit status for scripting.
type FailuresError struct {
	Count int
}

func (e *FailuresError) Error() string {
	if e.Count == 1 {
		return "verification failed for 1 file"
	}
	return fmt.Sprintf("verification failed for %d files", e.Count)
}
