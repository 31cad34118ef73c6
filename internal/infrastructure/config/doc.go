// Package config loads and validates Inkwell configuration from YAML files
// with environment variable overrides (INKWELL_* prefix).
//
// Configuration precedence: defaults < YAML file < environment variables.
// The loaded Config is immutable after startup; it is constructed once in
// main and passed by reference into the components that need it.
package config
