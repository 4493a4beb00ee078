// One-shot content refresh: runs a full fetch-all cycle, rewrites the
// cache document and optionally pushes the result to the search backend.
// Exits non-zero when every source fell back to placeholder content.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/torqlabs/torq-news/internal/aggregator"
	"github.com/torqlabs/torq-news/internal/cache"
	"github.com/torqlabs/torq-news/internal/config"
	searchfactory "github.com/torqlabs/torq-news/internal/search/factory"
)

func main() {
	reindex := flag.Bool("reindex", false, "push the refreshed articles to the configured search backend")
	flag.Parse()

	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := config.LoadCatalog(cfg.SourcesPath)
	if err != nil {
		slog.Error("Failed to load source catalog", "error", err)
		os.Exit(1)
	}

	store := cache.NewStore(cfg.CachePath)

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

	doc, err := builder.Refresh(ctx)
	if err != nil {
		slog.Error("Content refresh failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Content refresh finished",
		"articles", len(doc.All()),
		"sources_used", doc.SourcesUsed,
		"cache", store.Path(),
	)

	if *reindex {
		searcher, err := searchfactory.NewSearcher(ctx, cfg.Search)
		if err != nil {
			slog.Error("Failed to create search backend", "error", err)
			os.Exit(1)
		}
		defer searcher.Close()

		if err := searcher.Reindex(ctx, doc.All()); err != nil {
			slog.Error("Reindex failed", "backend", searcher.Backend(), "error", err)
			os.Exit(1)
		}
		slog.Info("Reindex finished", "backend", searcher.Backend())
	}

	if len(doc.SourcesUsed) == 0 {
		slog.Error("Every source fell back to placeholder content")
		os.Exit(1)
	}
}
