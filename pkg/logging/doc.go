// Package logging provides structured logging utilities for cudalis
// components.
//
// The package wraps the standard library slog package with shared defaults
// so the CLI and the API server log consistently: structured JSON to stderr,
// module/version context on every record, LOG_LEVEL environment variable
// support, and source location tracking for debug logs.
//
// Usage:
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("cudalis", version)
//	    slog.Info("resolving versions", "python", "3.8.5")
//	}
//
// The LOG_LEVEL environment variable controls verbosity (debug, info, warn,
// error; case-insensitive). If unset, the level defaults to info. Explicit
// levels, e.g. from a --log-level flag, take precedence via
// SetDefaultStructuredLoggerWithLevel.
//
// Logs go to stderr so command output on stdout (resolved triples, plans,
// build results) stays machine-parseable.
package logging
