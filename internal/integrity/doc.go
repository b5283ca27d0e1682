// Package integrity validates the structural health of media files by
// driving external format-specific tools.
//
// Each supported format has one checker variant: mp3val for MP3, flac --test
// for FLAC, and oggz-validate for OGG. A checker reports its own availability
// (probed once per process and cached), validates files of its format by
// spawning the tool and parsing its output, and, where the tool supports it,
// repairs recoverable structural corruption in place.
//
// Checkers are format-scoped: validating a file of a format the checker does
// not support is a no-op success. Only the first detected violation per file
// is surfaced.
package integrity
