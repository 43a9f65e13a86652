/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"log/slog"
	"os"
	"strings"
)

// LogLevelEnvVar is the environment variable used to configure the default
// log level when no explicit level is provided.
const LogLevelEnvVar = "LOG_LEVEL"

// ParseLevel converts a level string to a slog.Level. Matching is
// case-insensitive and tolerates surrounding whitespace. Unknown values
// default to slog.LevelInfo.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// levelFromEnv returns the level configured via LOG_LEVEL, or info.
func levelFromEnv() slog.Level {
	return ParseLevel(os.Getenv(LogLevelEnvVar))
}

// NewStructuredLogger creates a JSON slog.Logger writing to stderr with
// module and version context attached to every record. Debug level enables
// source location tracking.
func NewStructuredLogger(module, version, level string) *slog.Logger {
	lvl := ParseLevel(level)

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	})

	return slog.New(handler).With(
		"module", module,
		"version", version,
	)
}

// SetDefaultStructuredLogger installs a structured logger as the slog
// default, with the level taken from the LOG_LEVEL environment variable
// (info if unset).
func SetDefaultStructuredLogger(module, version string) {
	slog.SetDefault(NewStructuredLogger(module, version, levelFromEnv().String()))
}

// SetDefaultStructuredLoggerWithLevel installs a structured logger as the
// slog default with an explicit level, overriding LOG_LEVEL.
func SetDefaultStructuredLoggerWithLevel(module, version, level string) {
	if strings.TrimSpace(level) == "" {
		SetDefaultStructuredLogger(module, version)
		return
	}
	slog.SetDefault(NewStructuredLogger(module, version, level))
}
