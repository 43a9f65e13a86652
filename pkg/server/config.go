/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/cudalis/cudalis/pkg/defaults"
)

// Config holds server configuration.
type Config struct {
	Address string
	Port    int

	// Path to an external catalog file; empty means the embedded catalog.
	CatalogPath string

	// Rate limiting
	RateLimit      rate.Limit // requests per second
	RateLimitBurst int

	// Timeouts
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	LogLevel slog.Level
}

// DefaultConfig returns sensible defaults, with PORT and LOG_LEVEL
// overridable from the environment.
func DefaultConfig() *Config {
	cfg := &Config{
		Address:         "",
		Port:            8080,
		RateLimit:       100,
		RateLimitBurst:  200,
		ReadTimeout:     defaults.ServerReadTimeout,
		WriteTimeout:    defaults.ServerWriteTimeout,
		IdleTimeout:     defaults.ServerIdleTimeout,
		ShutdownTimeout: defaults.ServerShutdownTimeout,
		LogLevel:        slog.LevelInfo,
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		var port int
		if _, err := fmt.Sscanf(portStr, "%d", &port); err == nil {
			cfg.Port = port
		}
	}

	if logLevelStr := os.Getenv("LOG_LEVEL"); logLevelStr != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(logLevelStr)); err == nil {
			cfg.LogLevel = level
		}
	}

	return cfg
}
