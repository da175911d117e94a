package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

const (
	defaultDatabasePath = "data/pasteleria.db"
	defaultLogLevel     = "info"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string
	LogLevel     logrus.Level
}

// NewFromEnv creates a new Config object from environment variables.
// Both variables are optional and fall back to sensible local defaults;
// an unparseable log level is reported rather than silently downgraded.
func NewFromEnv() (*Config, error) {
	databasePath := os.Getenv("PASTELERIA_DB_PATH")
	if databasePath == "" {
		databasePath = defaultDatabasePath
	}

	levelStr := os.Getenv("PASTELERIA_LOG_LEVEL")
	if levelStr == "" {
		levelStr = defaultLogLevel
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PASTELERIA_LOG_LEVEL %q: %w", levelStr, err)
	}

	return &Config{
		DatabasePath: databasePath,
		LogLevel:     level,
	}, nil
}
