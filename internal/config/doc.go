// Package config loads, normalizes, and validates chaptermux configuration data.
//
// It supplies repository defaults, reads TOML files, expands user paths
// (including tilde shortcuts), and honours CHAPTERMUX_* environment overrides
// for tool locations, the remux backend, and logging. Lookup order is the
// --config flag, ~/.config/chaptermux/config.toml, then ./chaptermux.toml.
//
// Always obtain settings through this package so downstream code receives
// canonical backend names, ISO 639-2 chapter languages, and clear validation
// errors.
package config
