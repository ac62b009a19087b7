package config

const (
	defaultRhubarbBinary = "rhubarb"
	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
	defaultBlinkMinWait  = 2.0
	defaultBlinkMaxWait  = 4.0
	defaultFrameRate     = 24
	defaultVideoCodec    = "qtrle"
	defaultPixelFormat   = "argb"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultHistoryPath   = "~/.local/share/lipsync/history.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			Rhubarb: defaultRhubarbBinary,
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Blink: Blink{
			MinWait:   defaultBlinkMinWait,
			MaxWait:   defaultBlinkMaxWait,
			FrameRate: defaultFrameRate,
		},
		Video: Video{
			Codec:       defaultVideoCodec,
			PixelFormat: defaultPixelFormat,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: false,
			Path:    defaultHistoryPath,
		},
	}
}
