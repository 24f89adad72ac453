// Package logging provides structured logging for the Arcella runtime.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the entire application.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
// Logging is configured from the resolved arcella.log.* keys:
//
//	[log]
//	level = "info"     # debug, info, warn, error
//	format = "json"    # json, text
//	output = "stderr"  # stdout, stderr
//
// # Usage
//
//	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cfg.LogOutput}, "1.0.0")
//	logger.Info("starting runtime", "modules", cfg.ModulesDir)
//	logger.Error("failed to bind socket", "error", err)
//
// Configuration loading runs before any logger exists; its warnings buffer
// on the resolved view and are replayed through FlushConfigWarnings once
// the logger is up.
//
// # Security
//
// Never log secrets, tokens, passwords, or API keys.
// Use field redaction for sensitive data:
//
//	logger.Info("API key used", "key_prefix", key[:8]+"...")
package logging
