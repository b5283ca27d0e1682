package config

const (
	defaultLibraryDB      = "~/.local/share/fidelity/library.db"
	defaultLogDir         = "~/.local/share/fidelity/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultMP3ValBinary   = "mp3val"
	defaultFlacBinary     = "flac"
	defaultOggzBinary     = "oggz-validate"
	defaultToolTimeout    = 0
	defaultCheckIntegrity = true
	defaultCheckImport    = true
	defaultCheckBackup    = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDB: defaultLibraryDB,
			LogDir:    defaultLogDir,
		},
		Check: Check{
			Threads:   0,
			Integrity: defaultCheckIntegrity,
			Import:    defaultCheckImport,
			Backup:    defaultCheckBackup,
		},
		Tools: Tools{
			MP3Val:         defaultMP3ValBinary,
			Flac:           defaultFlacBinary,
			OggzValidate:   defaultOggzBinary,
			TimeoutSeconds: defaultToolTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
