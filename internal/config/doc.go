// Package config loads, normalizes, and validates setupam configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a .env file from the working directory,
// and applies SETUPAM_* environment overrides. Always obtain settings through
// this package so downstream code receives absolute paths, canonical log
// formats, and clear validation errors.
package config
