// Package config loads, normalizes, and validates artref configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts and paths relative to the working directory), reads TOML files,
// and honours environment fallbacks such as ARTREF_LOG_LEVEL. A .env file in
// the working directory can seed those variables. The Config type centralizes
// every knob the catalog export and thumbnail mirror need.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical extension lists, and clear validation errors.
package config
