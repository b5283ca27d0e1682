package integrity

import (
	"context"
	"errors"
	"strings"
	"time"

	"fidelity/internal/library"
)

// OggzValidate validates OGG files with oggz-validate. It cannot repair files.
type OggzValidate struct {
	tool
}

// NewOggzValidate constructs the OGG checker around the given binary.
func NewOggzValidate(binary string, timeout time.Duration) *OggzValidate {
	if strings.TrimSpace(binary) == "" {
		binary = "oggz-validate"
	}
	return &OggzValidate{tool: tool{program: binary, timeout: timeout}}
}

func (c *OggzValidate) Supports(format library.Format) bool {
	return format == library.FormatOGG
}

func (c *OggzValidate) Validate(ctx context.Context, file *library.MediaFile) error {
	if !c.Supports(file.Format) {
		return nil
	}
	result, err := c.run(ctx, file.Path)
	if err != nil {
		return err
	}
	if result.exitCode == 0 {
		return nil
	}
	return &Violation{Path: file.Path, Reason: oggzReason(result.stderr)}
}

// oggzReason extracts the failure reason from oggz-validate stderr. The tool
// prints the offending file on the first line and the diagnostic on the
// second, so the second line (colons stripped) is the reason. Shorter output
// falls back to the first non-empty line.
func oggzReason(stderr string) string {
	lines := strings.Split(stderr, "\n")
	if len(lines) > 1 && strings.TrimSpace(lines[1]) != "" {
		return strings.ReplaceAll(lines[1], ":", "")
	}
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return strings.ReplaceAll(trimmed, ":", "")
		}
	}
	return "validation failed"
}

func (c *OggzValidate) CanFix(*library.MediaFile) bool {
	return false
}

func (c *OggzValidate) Fix(context.Context, string, bool) error {
	return errors.New("oggz checker cannot fix files")
}

var _ Checker = (*OggzValidate)(nil)
