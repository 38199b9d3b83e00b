package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the configuration file.
const (
	EnvSource   = "SETUPAM_SOURCE"
	EnvTarget   = "SETUPAM_TARGET"
	EnvLogLevel = "SETUPAM_LOG_LEVEL"
	EnvStateDir = "SETUPAM_STATE_DIR"
)

// loadDotEnv reads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if value, ok := lookupEnv(EnvSource); ok {
		c.Paths.SourceDir = value
	}
	if value, ok := lookupEnv(EnvTarget); ok {
		c.Paths.TargetDir = value
	}
	if value, ok := lookupEnv(EnvStateDir); ok {
		c.Paths.StateDir = value
	}
	if value, ok := lookupEnv(EnvLogLevel); ok {
		c.Logging.Level = value
	}
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}
