// Package config provides the typed application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/joshsymonds/dealflow/internal/common"
)

// Config is the validated startup configuration. Loading it is the single
// place configuration can fail; an invalid config is fatal and blocks the
// application with no retry.
type Config struct {
	DatabasePath string
	LogLevel     slog.Level
	LogFormat    string
}

// Load reads configuration from viper (file, environment, bound flags) and
// validates it.
func Load() (*Config, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: cannot determine home directory: %v", common.ErrMissingConfig, err)
		}
		dbPath = filepath.Join(home, ".local", "share", "dealflow", "dealflow.db")
	}

	level, err := parseLevel(viper.GetString("logging.level"))
	if err != nil {
		return nil, err
	}

	format := viper.GetString("logging.format")
	if format == "" {
		format = "console"
	}
	if format != "console" && format != "json" {
		return nil, fmt.Errorf("%w: log format must be console or json, got %q", common.ErrInvalidConfig, format)
	}

	return &Config{
		DatabasePath: ExpandPath(dbPath),
		LogLevel:     level,
		LogFormat:    format,
	}, nil
}

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: invalid log level %q", common.ErrInvalidConfig, level)
	}
}

// ExpandPath expands a leading ~ and any environment variables in a path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
