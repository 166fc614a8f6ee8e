package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/target/crewboard/config"
)

// logLevel is shared by every logger InitLogger returns.
var logLevel slog.LevelVar

// InitLogger installs a JSON logger on stdout as the slog default.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: &logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// SetDebugLogging switches the InitLogger level between debug and info.
func SetDebugLogging(enabled bool) {
	if enabled {
		logLevel.Set(slog.LevelDebug)
		return
	}
	logLevel.Set(slog.LevelInfo)
}

// dotenvFiles are read in order. godotenv never overrides a variable that is
// already set, so the process environment beats .env.local, which beats .env.
var dotenvFiles = []string{".env.local", ".env"}

// LoadConfig reads the optional dotenv files, then parses the environment
// into AppConfig and sanitizes it.
func LoadConfig() (config.AppConfig, error) {
	return loadConfig(dotenvFiles...)
}

func loadConfig(files ...string) (config.AppConfig, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config.AppConfig{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return config.AppConfig{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}
