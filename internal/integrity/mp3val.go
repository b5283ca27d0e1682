package integrity

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"fidelity/internal/library"
)

// mp3val warning lines look like
// "WARNING: "track.mp3" (offset 0x4f): MPEG stream error, resynchronized successfully".
var mp3valWarning = regexp.MustCompile(`^WARNING: .* \(offset 0x[0-9a-f]+\): (.*)$`)

// MP3Val validates and repairs MP3 files with the mp3val tool. It is the only
// checker in the known set that supports destructive in-place repair.
type MP3Val struct {
	tool
}

// NewMP3Val constructs the MP3 checker around the given binary.
func NewMP3Val(binary string, timeout time.Duration) *MP3Val {
	if strings.TrimSpace(binary) == "" {
		binary = "mp3val"
	}
	return &MP3Val{tool: tool{program: binary, timeout: timeout}}
}

func (c *MP3Val) Supports(format library.Format) bool {
	return format == library.FormatMP3
}

func (c *MP3Val) Validate(ctx context.Context, file *library.MediaFile) error {
	if !c.Supports(file.Format) {
		return nil
	}
	result, err := c.run(ctx, file.Path)
	if err != nil {
		return err
	}
	for _, line := range strings.Split(result.stdout, "\n") {
		if match := mp3valWarning.FindStringSubmatch(line); match != nil {
			return &Violation{Path: file.Path, Reason: match[1]}
		}
	}
	return nil
}

func (c *MP3Val) CanFix(file *library.MediaFile) bool {
	return file != nil && c.Supports(file.Format)
}

// Fix repairs the file in place with mp3val -f. The tool always writes a
// backup next to the original as <path>.bak; when keepBackup is false that
// backup is removed after the repair completes.
func (c *MP3Val) Fix(ctx context.Context, path string, keepBackup bool) error {
	if _, err := c.run(ctx, "-f", path); err != nil {
		return err
	}
	if !keepBackup {
		if err := os.Remove(path + ".bak"); err != nil {
			return fmt.Errorf("remove fix backup: %w", err)
		}
	}
	return nil
}

var _ Checker = (*MP3Val)(nil)
