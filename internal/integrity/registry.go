package integrity

import (
	"context"
	"sync"
	"time"

	"fidelity/internal/config"
	"fidelity/internal/library"
)

// Registry holds the fixed set of checker variants, enumerated once at
// startup. The available subset is computed lazily and cached for the
// process lifetime.
type Registry struct {
	checkers []Checker

	availOnce sync.Once
	available []Checker
}

// NewRegistry builds the static checker set from the configured tool binaries.
func NewRegistry(tools config.Tools) *Registry {
	timeout := time.Duration(tools.TimeoutSeconds) * time.Second
	return &Registry{
		checkers: []Checker{
			NewMP3Val(tools.MP3Val, timeout),
			NewFlacTest(tools.Flac, timeout),
			NewOggzValidate(tools.OggzValidate, timeout),
		},
	}
}

// All returns every registered checker, available or not.
func (r *Registry) All() []Checker {
	cp := make([]Checker, len(r.checkers))
	copy(cp, r.checkers)
	return cp
}

// Available returns the checkers whose external tool is installed. The probe
// runs once; call this before starting concurrent verification so workers
// only read the cached result.
func (r *Registry) Available() []Checker {
	r.availOnce.Do(func() {
		for _, checker := range r.checkers {
			if checker.Available() {
				r.available = append(r.available, checker)
			}
		}
	})
	cp := make([]Checker, len(r.available))
	copy(cp, r.available)
	return cp
}

// Fixer returns the first available checker that can repair the given file,
// or nil when none can.
func (r *Registry) Fixer(file *library.MediaFile) Checker {
	for _, checker := range r.Available() {
		if checker.CanFix(file) {
			return checker
		}
	}
	return nil
}

// Validate runs every available checker against the file and returns the
// first violation. Checkers skip formats they do not support, so at most one
// tool is spawned per file.
func (r *Registry) Validate(ctx context.Context, file *library.MediaFile) error {
	for _, checker := range r.Available() {
		if err := checker.Validate(ctx, file); err != nil {
			return err
		}
	}
	return nil
}
