// Package config loads, normalizes, and validates sredun configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SREDUN_SCORER. The Config type centralizes every knob the CLI and engine
// need, so the working directory, external tool commands, and comparison
// settings are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
