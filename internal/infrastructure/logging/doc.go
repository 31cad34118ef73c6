// Package logging provides structured logging for Inkwell, built on log/slog.
//
// Loggers carry default service/version attributes and are configured from
// the logging section of the YAML config (level, format, output).
package logging
