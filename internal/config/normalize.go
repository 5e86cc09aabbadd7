package config

import (
	"fmt"
	"os"
	"strings"

	"chaptermux/internal/language"
)

func (c *Config) normalize() error {
	c.applyEnv()
	c.normalizeTools()
	c.normalizeRemux()
	c.normalizeChapters()
	return c.normalizeLogging()
}

// applyEnv lets CHAPTERMUX_* variables override file values.
func (c *Config) applyEnv() {
	overrides := []struct {
		name   string
		target *string
	}{
		{envFFprobe, &c.Tools.FFprobe},
		{envFFmpeg, &c.Tools.FFmpeg},
		{envMKVMerge, &c.Tools.MKVMerge},
		{envMP4Box, &c.Tools.MP4Box},
		{envBackend, &c.Remux.Backend},
		{envLogLevel, &c.Logging.Level},
		{envLogFormat, &c.Logging.Format},
	}
	for _, o := range overrides {
		if value, ok := os.LookupEnv(o.name); ok && strings.TrimSpace(value) != "" {
			*o.target = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeTools() {
	c.Tools.FFprobe = withDefault(c.Tools.FFprobe, defaultFFprobe)
	c.Tools.FFmpeg = withDefault(c.Tools.FFmpeg, defaultFFmpeg)
	c.Tools.MKVMerge = withDefault(c.Tools.MKVMerge, defaultMKVMerge)
	c.Tools.MP4Box = withDefault(c.Tools.MP4Box, defaultMP4Box)
}

func (c *Config) normalizeRemux() {
	c.Remux.Backend = strings.ToLower(withDefault(c.Remux.Backend, BackendNative))
}

func (c *Config) normalizeChapters() {
	c.Chapters.IntroTitle = withDefault(c.Chapters.IntroTitle, defaultIntroTitle)
	lang := strings.TrimSpace(c.Chapters.Language)
	if lang == "" {
		c.Chapters.Language = defaultChapterLang
		return
	}
	// Accept "en", "en-US", or "English" and store the ISO 639-2 code.
	if code := language.ToISO3(lang); code != language.Undetermined {
		c.Chapters.Language = code
		return
	}
	c.Chapters.Language = strings.ToLower(lang)
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(withDefault(c.Logging.Format, defaultLogFormat))
	c.Logging.Level = strings.ToLower(withDefault(c.Logging.Level, defaultLogLevel))
	if strings.TrimSpace(c.Logging.File) == "" {
		c.Logging.File = ""
		return nil
	}
	expanded, err := expandPath(strings.TrimSpace(c.Logging.File))
	if err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	c.Logging.File = expanded
	return nil
}

func withDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
