package server

import "github.com/torqlabs/torq-news/internal/config"

// Config carries the HTTP server settings. It is derived from the
// application config so the server package stays free of env parsing.
type Config struct {
	Port        string
	UseHttp2    bool
	CorsOrigins []string
}

func NewConfig(cfg *config.Config) *Config {
	return &Config{
		Port:        cfg.Port,
		UseHttp2:    cfg.UseHttp2,
		CorsOrigins: cfg.CorsOrigins,
	}
}
