package verify

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"fidelity/internal/logging"
)

// Export writes the stored fingerprints of matching files to w in the
// conventional checksum-file layout, one "<checksum> *<path>" line per file.
// The format is understood by sha256sum --check. Files without a stored
// checksum are skipped. The number of exported lines is returned.
func (v *Verifier) Export(ctx context.Context, w io.Writer, query []string) (int, error) {
	log := v.runLogger("export")

	items, err := v.store.Items(ctx, query)
	if err != nil {
		return 0, err
	}

	buf := bufio.NewWriter(w)
	count := 0
	for _, file := range items {
		if !file.HasChecksum() {
			continue
		}
		if _, err := fmt.Fprintf(buf, "%s *%s\n", file.Checksum, file.Path); err != nil {
			return count, fmt.Errorf("write export: %w", err)
		}
		count++
	}
	if err := buf.Flush(); err != nil {
		return count, fmt.Errorf("write export: %w", err)
	}

	log.Info("exported checksums", logging.Int("files", count), logging.Int("matched", len(items)))
	return count, nil
}
