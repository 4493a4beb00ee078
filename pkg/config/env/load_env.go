package env

import (
	"fmt"
	"log/slog"
	"os"

	envparse "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file.
// It uses the ENV_PATH environment variable to determine the path to the .env file.
// Outside local mode a missing file is skipped with a debug log.
func LoadDotEnv(appEnv string, defaultPath string) error {
	var envPath string
	if os.Getenv("ENV_PATH") != "" {
		envPath = os.Getenv("ENV_PATH")
	} else {
		slog.Info("ENV_PATH is not set, using default path", "defaultPath", defaultPath)
		envPath = defaultPath
	}

	err := godotenv.Load(envPath)
	if err != nil {
		if appEnv == "local" || appEnv == "" {
			slog.Error("Failed to load environment variables in local mode", "error", err)
			return err
		}
		slog.Debug("Skipping .env ...")
	}

	return nil
}

// Parse fills cfg from process environment variables using `env` struct tags.
func Parse[T any](cfg *T) error {
	if err := envparse.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
