package library

import (
	"path/filepath"
	"strings"
	"time"
)

// Format identifies the media container format of a catalog entry.
type Format string

const (
	FormatMP3  Format = "MP3"
	FormatFLAC Format = "FLAC"
	FormatOGG  Format = "OGG"
)

var allFormats = []Format{FormatMP3, FormatFLAC, FormatOGG}

// Formats returns the closed set of supported media formats.
func Formats() []Format {
	cp := make([]Format, len(allFormats))
	copy(cp, allFormats)
	return cp
}

// KnownFormat reports whether the tag belongs to the supported format set.
func KnownFormat(format Format) bool {
	for _, known := range allFormats {
		if known == format {
			return true
		}
	}
	return false
}

var extensionFormats = map[string]Format{
	".mp3":  FormatMP3,
	".flac": FormatFLAC,
	".ogg":  FormatOGG,
	".oga":  FormatOGG,
}

// FormatFromPath infers a media format from the file extension. The second
// return value is false when the extension is not part of the supported set.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := extensionFormats[ext]
	return format, ok
}

// MediaFile is one catalog record. Checksum is empty until a fingerprint has
// been computed and stored.
type MediaFile struct {
	ID         int64
	Path       string
	Format     Format
	Checksum   string
	AddedAt    time.Time
	ModifiedAt time.Time
}

// HasChecksum reports whether a fingerprint has been stored for the record.
func (m *MediaFile) HasChecksum() bool {
	return m != nil && strings.TrimSpace(m.Checksum) != ""
}
