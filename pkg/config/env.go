// Package config provides helpers for reading configuration from
// environment variables with typed defaults.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// GetEnvString returns the value of an environment variable or the default
// value if the variable is not set or empty.
func GetEnvString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvInt returns the value of an environment variable as an integer.
// Unset, empty, or unparsable values yield the default and log a warning.
func GetEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("invalid integer value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", valueStr),
			slog.Int("default", defaultValue))
		return defaultValue
	}
	return value
}

// GetEnvBool returns the value of an environment variable as a boolean,
// accepting whatever strconv.ParseBool accepts. Unset or invalid values
// yield the default, invalid values also log a warning.
func GetEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		slog.Warn("invalid boolean value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", valueStr),
			slog.Bool("default", defaultValue))
		return defaultValue
	}
	return value
}

// GetEnvDuration returns the value of an environment variable as a
// time.Duration (time.ParseDuration syntax, e.g. "30s", "1h30m").
// Unset, empty, or unparsable values yield the default and log a warning.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		slog.Warn("invalid duration value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", valueStr),
			slog.String("default", defaultValue.String()))
		return defaultValue
	}
	return value
}
