// Package aggregator runs the content refresh cycle: it fans out to every
// source fetcher, merges live results with fallback pools, optionally
// enriches articles with extracted full text and composes the cache
// document the site renders from.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/torqlabs/torq-news/internal/cache"
	"github.com/torqlabs/torq-news/internal/config"
	"github.com/torqlabs/torq-news/internal/domain"
	"github.com/torqlabs/torq-news/internal/scraper"
)

const defaultWorkers = 4

type Config struct {
	Catalog *config.Catalog
	Store   *cache.Store

	// Client is shared by every fetcher; nil gets a default with the
	// configured timeout.
	Client       *http.Client
	FetchTimeout time.Duration

	// SourceDelay staggers fetch starts so sources are not hit in one
	// burst.
	SourceDelay time.Duration

	ExtractFullText bool
	Workers         int
}

// Builder owns one refresh pipeline over a fixed source catalog.
type Builder struct {
	sources   []config.Source
	fetchers  []scraper.Fetcher
	store     *cache.Store
	extractor *scraper.Extractor

	delay   time.Duration
	extract bool
	workers int
}

func New(cfg Config) (*Builder, error) {
	if cfg.Catalog == nil || len(cfg.Catalog.Sources) == 0 {
		return nil, errors.New("aggregator needs a source catalog")
	}

	client := cfg.Client
	if client == nil {
		client = scraper.NewHTTPClient(cfg.FetchTimeout)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	b := &Builder{
		sources: cfg.Catalog.Sources,
		store:   cfg.Store,
		delay:   cfg.SourceDelay,
		extract: cfg.ExtractFullText,
		workers: workers,
	}

	for _, src := range cfg.Catalog.Sources {
		fetcher, err := scraper.ForSource(src, client)
		if err != nil {
			return nil, fmt.Errorf("build fetcher for %s: %w", src.Name, err)
		}
		b.fetchers = append(b.fetchers, fetcher)
	}

	if b.extract {
		b.extractor = scraper.NewExtractor(client)
	}

	return b, nil
}

// FetchAll runs every source fetcher concurrently and returns one result
// per catalog entry, in catalog order. Starts are staggered by the source
// delay; a bounded worker pool caps in-flight fetches.
func (b *Builder) FetchAll(ctx context.Context) []domain.SourceResult {
	results := make([]domain.SourceResult, len(b.sources))

	var wg sync.WaitGroup
	sem := make(chan struct{}, b.workers)

	for i := range b.sources {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			src := b.sources[idx]
			if b.delay > 0 && idx > 0 {
				select {
				case <-ctx.Done():
					results[idx] = failedResult(src.Name, ctx.Err())
					return
				case <-time.After(time.Duration(idx) * b.delay):
				}
			}

			select {
			case <-ctx.Done():
				results[idx] = failedResult(src.Name, ctx.Err())
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			articles, err := b.fetchers[idx].Fetch(ctx, src.Limit)
			if err != nil {
				results[idx] = failedResult(src.Name, err)
				return
			}
			results[idx] = domain.SourceResult{Source: src.Name, Articles: articles}
		}(i)
	}

	wg.Wait()
	return results
}

func failedResult(source string, err error) domain.SourceResult {
	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		fetchErr = domain.NewFetchError(source, domain.FetchErrRequest, err)
	}
	return domain.SourceResult{Source: source, Err: fetchErr}
}

// enrichAll runs full-text extraction over link-bearing articles with a
// bounded worker pool.
func (b *Builder) enrichAll(ctx context.Context, articles []domain.Article) int {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		enriched int
	)
	sem := make(chan struct{}, b.workers)

	for i := range articles {
		if articles[i].Link == "" || articles[i].Link == "#" {
			continue
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return enriched
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(article *domain.Article) {
			defer wg.Done()
			defer func() { <-sem }()

			if b.extractor.Enrich(ctx, article) {
				mu.Lock()
				enriched++
				mu.Unlock()
			}
		}(&articles[i])
	}

	wg.Wait()
	return enriched
}
