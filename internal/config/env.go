// SPDX-License-Identifier: MIT

// Package config loads orchestrator configuration with precedence
// ENV > YAML file > built-in defaults, and hot-reloads the reviewer
// thresholds from the YAML file via fsnotify.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/log"
)

// ParseString reads a string from the environment, or returns defaultValue.
func ParseString(key, defaultValue string) string {
	logger := log.WithComponent("config")
	if v, ok := os.LookupEnv(key); ok && v != "" {
		logger.Debug().Str("key", key).Str("source", "environment").Msg("using environment variable")
		return v
	}
	logger.Debug().Str("key", key).Str("default", defaultValue).Str("source", "default").Msg("using default value")
	return defaultValue
}

// ParseBool reads a bool from the environment, or returns defaultValue.
func ParseBool(key string, defaultValue bool) bool {
	logger := log.WithComponent("config")
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			logger.Debug().Str("key", key).Bool("value", b).Str("source", "environment").Msg("using environment variable")
			return b
		}
		logger.Warn().Str("key", key).Str("value", v).Msg("invalid bool in environment variable, using default")
	}
	return defaultValue
}

// ParseInt reads an int from the environment, or returns defaultValue.
func ParseInt(key string, defaultValue int) int {
	logger := log.WithComponent("config")
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			logger.Debug().Str("key", key).Int("value", i).Str("source", "environment").Msg("using environment variable")
			return i
		}
		logger.Warn().Str("key", key).Str("value", v).Msg("invalid integer in environment variable, using default")
	}
	return defaultValue
}

// ParseFloat reads a float64 from the environment, or returns defaultValue.
func ParseFloat(key string, defaultValue float64) float64 {
	logger := log.WithComponent("config")
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			logger.Debug().Str("key", key).Float64("value", f).Str("source", "environment").Msg("using environment variable")
			return f
		}
		logger.Warn().Str("key", key).Str("value", v).Msg("invalid float in environment variable, using default")
	}
	return defaultValue
}

// ParseDuration reads a Go-duration-formatted value from the environment,
// interpreting a bare integer as seconds (matching the *_SECONDS env keys
// of SPEC_FULL.md), or returns defaultValue.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	logger := log.WithComponent("config")
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(v); err == nil {
		d := time.Duration(secs) * time.Second
		logger.Debug().Str("key", key).Dur("value", d).Str("source", "environment").Msg("using environment variable")
		return d
	}
	if d, err := time.ParseDuration(v); err == nil {
		logger.Debug().Str("key", key).Dur("value", d).Str("source", "environment").Msg("using environment variable")
		return d
	}
	logger.Warn().Str("key", key).Str("value", v).Msg("invalid duration in environment variable, using default")
	return defaultValue
}
