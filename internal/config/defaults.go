package config

const (
	defaultRecordingsDir  = "/var/lib/mythtv/recordings"
	defaultLogDir         = "~/.local/share/commflag/logs"
	defaultDBPath         = "~/.local/share/commflag/commflag.db"
	defaultBackendHost    = "127.0.0.1"
	defaultBackendPort    = 6543
	defaultBackendTimeout = 10
	defaultLingerSeconds  = 1
	defaultTailBinary     = "tail"
	defaultFFmpegBinary   = "mythffmpeg"
	defaultSilenceBinary  = "/usr/local/bin/silence"
	defaultChannels       = 6
	defaultNtfyTimeout    = 10
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RecordingsDir: defaultRecordingsDir,
			LogDir:        defaultLogDir,
			DBPath:        defaultDBPath,
		},
		Backend: Backend{
			Host:           defaultBackendHost,
			Port:           defaultBackendPort,
			RequestTimeout: defaultBackendTimeout,
			LingerSeconds:  defaultLingerSeconds,
		},
		Pipeline: Pipeline{
			TailBinary:    defaultTailBinary,
			FFmpegBinary:  defaultFFmpegBinary,
			SilenceBinary: defaultSilenceBinary,
			Channels:      defaultChannels,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
