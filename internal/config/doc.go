// Package config loads, normalizes, and validates vidsum configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files (or YAML when the file ends in .yaml/.yml), and
// honours environment fallbacks such as OLLAMA_HOST. Command-line flags are
// merged last through ApplyOverrides so a single Config value carries the
// endpoint, model names and output paths into every pipeline component.
package config
