package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/torqlabs/torq-news/pkg/config/env"
)

// Config holds every runtime setting for the site, parsed from the process
// environment. A .env file is loaded first when present.
type Config struct {
	AppEnv      string   `env:"APP_ENV" envDefault:"local"`
	Port        string   `env:"PORT" envDefault:"8080"`
	UseHttp2    bool     `env:"USE_HTTP2" envDefault:"false"`
	CorsOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`

	CachePath   string `env:"DATA_CACHE_PATH" envDefault:"data_cache.json"`
	SourcesPath string `env:"SOURCES_PATH"`

	AnalyticsDBPath string `env:"ANALYTICS_DB_PATH" envDefault:"analytics.db"`

	Subscribers SubscribersConfig
	Search      SearchConfig
	Refresh     RefreshConfig

	CronSecret string `env:"CRON_SECRET"`
}

// SubscribersConfig selects the primary subscriber backend and its fallback.
type SubscribersConfig struct {
	Backend    string `env:"SUBSCRIBERS_BACKEND" envDefault:"sqlite"`
	PGConnStr  string `env:"PG_CONNECTION_STRING"`
	SQLitePath string `env:"SUBSCRIBERS_DB_PATH" envDefault:"subscribers.db"`
}

// SearchConfig selects the article search backend.
type SearchConfig struct {
	Backend     string   `env:"SEARCH_BACKEND" envDefault:"bleve"`
	EsAddresses []string `env:"ES_ADDRESSES" envSeparator:","`
	EsIndex     string   `env:"ES_INDEX_NAME" envDefault:"torq-articles"`
	EsUsername  string   `env:"ES_USERNAME"`
	EsPassword  string   `env:"ES_PASSWORD"`
}

// RefreshConfig drives the background scrape cycle.
type RefreshConfig struct {
	Interval        time.Duration `env:"REFRESH_INTERVAL" envDefault:"5h"`
	SourceDelay     time.Duration `env:"SOURCE_DELAY" envDefault:"2s"`
	ExtractFullText bool          `env:"EXTRACT_FULL_TEXT" envDefault:"true"`
	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
	Workers         int           `env:"REFRESH_WORKERS" envDefault:"4"`
}

// Load reads the .env file (when present) and parses the environment.
func Load(defaultEnvPath string) (*Config, error) {
	if err := env.LoadDotEnv(os.Getenv("APP_ENV"), defaultEnvPath); err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	if err := validatePort(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	if len(cfg.CorsOrigins) == 0 {
		cfg.CorsOrigins = []string{"*"}
	}

	return &cfg, nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}
