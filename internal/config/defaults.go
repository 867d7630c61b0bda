package config

const (
	defaultDataDir              = "~/.local/share/telenovela/data"
	defaultMediaDir             = "~/.local/share/telenovela/media"
	defaultLogDir               = "~/.local/share/telenovela/logs"
	defaultAPIBind              = "127.0.0.1:7788"
	defaultTextModel            = "gemini-2.5-flash"
	defaultImageModel           = "imagen-4.0-generate-001"
	defaultVideoModel           = "veo-3.0-generate-001"
	defaultGeminiTimeoutSeconds = 300
	defaultChunkSize            = 3
	defaultIdeaCount            = 3
	defaultStuckThresholdMins   = 10
	defaultSweepIntervalMins    = 5
	defaultSessionTTLMinutes    = 720
	defaultLoginRatePerMinute   = 5
	defaultRequestRatePerSecond = 20
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			MediaDir: defaultMediaDir,
			LogDir:   defaultLogDir,
			APIBind:  defaultAPIBind,
		},
		Gemini: Gemini{
			TextModel:      defaultTextModel,
			ImageModel:     defaultImageModel,
			VideoModel:     defaultVideoModel,
			TimeoutSeconds: defaultGeminiTimeoutSeconds,
		},
		Generation: Generation{
			ChunkSize:             defaultChunkSize,
			IdeaCount:             defaultIdeaCount,
			StuckThresholdMinutes: defaultStuckThresholdMins,
			SweepIntervalMinutes:  defaultSweepIntervalMins,
		},
		Auth: Auth{
			Enabled:              false,
			SessionTTLMinutes:    defaultSessionTTLMinutes,
			LoginRatePerMinute:   defaultLoginRatePerMinute,
			RequestRatePerSecond: defaultRequestRatePerSecond,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
