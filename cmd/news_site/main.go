// Package main TORQ Tech News
// @title TORQ Tech News API
// @version 1.0
// @description Content-aggregation news site: scraped tech articles, newsletter subscriptions and visitor analytics.
// @BasePath /
package main

import (
	"log/slog"
	"os"
	"strings"

	_ "github.com/torqlabs/torq-news/docs"
	"github.com/torqlabs/torq-news/internal/aggregator"
	"github.com/torqlabs/torq-news/internal/analytics"
	"github.com/torqlabs/torq-news/internal/cache"
	"github.com/torqlabs/torq-news/internal/config"
	sitemw "github.com/torqlabs/torq-news/internal/middleware"
	"github.com/torqlabs/torq-news/internal/router"
	"github.com/torqlabs/torq-news/internal/scheduler"
	searchfactory "github.com/torqlabs/torq-news/internal/search/factory"
	"github.com/torqlabs/torq-news/internal/server"
	subfactory "github.com/torqlabs/torq-news/internal/subscribers/factory"
	"github.com/torqlabs/torq-news/internal/web"
	pkgserver "github.com/torqlabs/torq-news/pkg/server"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetLogLoggerLevel(logLevel(cfg.LogLevel))

	db, err := analytics.Open(cfg.AnalyticsDBPath)
	if err != nil {
		slog.Error("Failed to open analytics database", "error", err, "path", cfg.AnalyticsDBPath)
		os.Exit(1)
	}
	recorder := analytics.NewRecorder(db)
	analyzer := analytics.NewAnalyzer(db)

	store := cache.NewStore(cfg.CachePath)

	health := pkgserver.NewMultiHealthChecker().
		Register("analytics", db)

	s := server.New(server.NewConfig(cfg), health).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupOpenApi("/swagger/*")

	subs, err := subfactory.NewService(s.Context(), cfg.Subscribers)
	if err != nil {
		slog.Error("Failed to create subscriber store", "error", err)
		os.Exit(1)
	}
	health.Register("subscribers", subs)

	searcher, err := searchfactory.NewSearcher(s.Context(), cfg.Search)
	if err != nil {
		slog.Error("Failed to create search backend", "error", err)
		os.Exit(1)
	}
	health.Register("search", searcher)

	if err := web.Register(s.Echo); err != nil {
		slog.Error("Failed to set up page rendering", "error", err)
		os.Exit(1)
	}

	catalog, err := config.LoadCatalog(cfg.SourcesPath)
	if err != nil {
		slog.Error("Failed to load source catalog", "error", err)
		os.Exit(1)
	}

	builder, err := aggregator.New(aggregator.Config{
		Catalog:         catalog,
		Store:           store,
		FetchTimeout:    cfg.Refresh.FetchTimeout,
		SourceDelay:     cfg.Refresh.SourceDelay,
		ExtractFullText: cfg.Refresh.ExtractFullText,
		Workers:         cfg.Refresh.Workers,
	})
	if err != nil {
		slog.Error("Failed to create content aggregator", "error", err)
		os.Exit(1)
	}

	sched := scheduler.New(builder, store, searcher, cfg.Refresh.Interval)
	sched.Start(s.Context())

	router.NewPageRouter(s.Echo, store, recorder, subs).Bind(sitemw.Tracker(recorder))
	router.NewApiRouter(s.Echo, subs, recorder, analyzer, store, searcher,
		router.WithRefresher(sched),
		router.WithCronSecret(cfg.CronSecret),
	).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
		subs.Close()
		if err := searcher.Close(); err != nil {
			slog.Warn("Search backend close failed", "error", err)
		}
		if err := db.Close(); err != nil {
			slog.Warn("Analytics database close failed", "error", err)
		}
	}()

	if err := s.Start(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
