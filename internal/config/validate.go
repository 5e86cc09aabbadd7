package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRemux(); err != nil {
		return err
	}
	if err := c.validateChapters(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateRemux() error {
	switch c.Remux.Backend {
	case BackendNative, BackendFFmpeg:
	default:
		return fmt.Errorf("remux.backend: unsupported value %q (want %q or %q)", c.Remux.Backend, BackendNative, BackendFFmpeg)
	}
	if c.Remux.TimeoutSeconds < 0 {
		return errors.New("remux.timeout_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateChapters() error {
	if strings.ContainsAny(c.Chapters.IntroTitle, "\r\n") {
		return errors.New("chapters.intro_title must be a single line")
	}
	if len(c.Chapters.Language) != 3 {
		return fmt.Errorf("chapters.language: %q is not an ISO 639-2 code", c.Chapters.Language)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
