// Package config loads, normalizes, and validates comicbatch configuration data.
//
// It supplies repository defaults (the same values the command-line flags
// default to), expands user paths including tilde shortcuts, reads TOML files,
// and honours the COMICBATCH_CONFIG environment fallback. Sizes decode from
// either plain byte counts or human-readable strings.
//
// Always obtain settings through this package so downstream code receives
// sanitized prefixes, canonical backend names, and clear validation errors.
package config
