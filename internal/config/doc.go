// Package config loads, normalizes, and validates tvschema configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), resolves bare input and output file names against the data
// directory, reads TOML files, and honours environment fallbacks such as
// TVSCHEMA_DATA_DIR and TVSCHEMA_LOG_LEVEL.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log settings, and clear validation errors keyed
// by their TOML names.
package config
