package config

const (
	defaultConfigPath   = "~/.config/chaptermux/config.toml"
	projectConfigName   = "chaptermux.toml"
	defaultFFprobe      = "ffprobe"
	defaultFFmpeg       = "ffmpeg"
	defaultMKVMerge     = "mkvmerge"
	defaultMP4Box       = "MP4Box"
	defaultRemuxTimeout = 600
	defaultIntroTitle   = "Intro"
	defaultChapterLang  = "eng"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	BackendNative       = "native"
	BackendFFmpeg       = "ffmpeg"
	envFFprobe          = "CHAPTERMUX_FFPROBE"
	envFFmpeg           = "CHAPTERMUX_FFMPEG"
	envMKVMerge         = "CHAPTERMUX_MKVMERGE"
	envMP4Box           = "CHAPTERMUX_MP4BOX"
	envBackend          = "CHAPTERMUX_BACKEND"
	envLogLevel         = "CHAPTERMUX_LOG_LEVEL"
	envLogFormat        = "CHAPTERMUX_LOG_FORMAT"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			FFprobe:  defaultFFprobe,
			FFmpeg:   defaultFFmpeg,
			MKVMerge: defaultMKVMerge,
			MP4Box:   defaultMP4Box,
		},
		Remux: Remux{
			Backend:        BackendNative,
			TimeoutSeconds: defaultRemuxTimeout,
		},
		Chapters: Chapters{
			IntroTitle: defaultIntroTitle,
			Language:   defaultChapterLang,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
