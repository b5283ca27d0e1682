package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LibraryDB) == "" {
		c.Paths.LibraryDB = defaultLibraryDB
	}
	if c.Paths.LibraryDB, err = expandPath(c.Paths.LibraryDB); err != nil {
		return fmt.Errorf("paths.library_db: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	if strings.TrimSpace(c.Tools.MP3Val) == "" {
		c.Tools.MP3Val = defaultMP3ValBinary
	}
	if strings.TrimSpace(c.Tools.Flac) == "" {
		c.Tools.Flac = defaultFlacBinary
	}
	if strings.TrimSpace(c.Tools.OggzValidate) == "" {
		c.Tools.OggzValidate = defaultOggzBinary
	}
	c.Tools.MP3Val = strings.TrimSpace(c.Tools.MP3Val)
	c.Tools.Flac = strings.TrimSpace(c.Tools.Flac)
	c.Tools.OggzValidate = strings.TrimSpace(c.Tools.OggzValidate)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
