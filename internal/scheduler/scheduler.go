// Package scheduler drives the periodic content refresh. One goroutine
// runs the cycle on a fixed interval; manual triggers from the ops
// endpoints funnel into the same loop so cycles never overlap.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/torqlabs/torq-news/internal/aggregator"
	"github.com/torqlabs/torq-news/internal/cache"
	"github.com/torqlabs/torq-news/internal/search"
)

type Scheduler struct {
	builder  *aggregator.Builder
	store    *cache.Store
	searcher search.Searcher
	interval time.Duration

	// kick holds at most one pending manual trigger; extra triggers
	// while a cycle runs collapse into it.
	kick chan struct{}
}

func New(builder *aggregator.Builder, store *cache.Store, searcher search.Searcher, interval time.Duration) *Scheduler {
	return &Scheduler{
		builder:  builder,
		store:    store,
		searcher: searcher,
		interval: interval,
		kick:     make(chan struct{}, 1),
	}
}

// Start launches the refresh loop and returns. A fresh-enough cache skips
// the startup cycle; after that the ticker takes over until ctx ends.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		if s.store != nil && !s.store.Stale(ctx, s.interval) {
			slog.Info("Content cache still fresh, skipping startup refresh")
			s.reindexFromCache(ctx)
		} else {
			s.runCycle(ctx)
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("Refresh loop stopped")
				return
			case <-ticker.C:
				s.runCycle(ctx)
			case <-s.kick:
				s.runCycle(ctx)
			}
		}
	}()
}

// Trigger queues an immediate refresh. It reports false when one is
// already pending, in which case the pending cycle covers this request.
func (s *Scheduler) Trigger() bool {
	select {
	case s.kick <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	doc, err := s.builder.Refresh(ctx)
	if err != nil {
		// A failed cycle keeps serving the previous cache.
		slog.Error("Content refresh cycle failed", "error", err)
		return
	}
	s.reindex(ctx, doc)
}

func (s *Scheduler) reindexFromCache(ctx context.Context) {
	if s.store == nil {
		return
	}
	doc, err := s.store.Load(ctx)
	if err != nil {
		return
	}
	s.reindex(ctx, doc)
}

func (s *Scheduler) reindex(ctx context.Context, doc *cache.Document) {
	if s.searcher == nil {
		return
	}
	if err := s.searcher.Reindex(ctx, doc.All()); err != nil {
		slog.Error("Search reindex failed", "backend", s.searcher.Backend(), "error", err)
	}
}
