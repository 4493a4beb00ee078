package aggregator

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/torqlabs/torq-news/internal/cache"
	"github.com/torqlabs/torq-news/internal/config"
	"github.com/torqlabs/torq-news/internal/domain"
	"github.com/torqlabs/torq-news/internal/scraper"
)

const (
	gridSize  = 6
	aimlLimit = 3

	featuredAuthorTitle = "Tech Analyst"
)

// Build runs one full cycle and composes the cache document without
// persisting it.
func (b *Builder) Build(ctx context.Context) (*cache.Document, error) {
	start := time.Now()
	slog.Info("Starting content refresh",
		"sources", len(b.sources),
		"extract_full_text", b.extract,
	)

	results := b.FetchAll(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all, sourcesUsed, aimlPool := b.merge(results)

	if b.extract {
		enriched := b.enrichAll(ctx, all)
		slog.Info("Full text extraction finished", "enriched", enriched, "articles", len(all))
	}

	rand.Shuffle(len(all), func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})

	doc := compose(all, sourcesUsed, aimlPool)

	slog.Info("Content refresh complete",
		"articles", len(all),
		"sources_used", sourcesUsed,
		"duration", time.Since(start),
	)
	return doc, nil
}

// Refresh builds the document and saves it to the cache store.
func (b *Builder) Refresh(ctx context.Context) (*cache.Document, error) {
	doc, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	if b.store != nil {
		if err := b.store.Save(ctx, doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// merge folds per-source results into one article list in catalog order.
// A failed source contributes its fallback pool instead of live articles
// and stays out of sourcesUsed; the AI/ML padding pool is the batch of the
// first AI-focused catalog source.
func (b *Builder) merge(results []domain.SourceResult) ([]domain.Article, []string, []domain.Article) {
	var (
		all         []domain.Article
		sourcesUsed []string
		aimlPool    []domain.Article
	)

	for i, res := range results {
		src := b.sources[i]

		batch := res.Articles
		if !res.OK() {
			slog.Warn("Source fetch failed, substituting fallbacks",
				"source", res.Source,
				"fallbacks", len(src.Fallbacks),
				"error", res.Err,
			)
			batch = materializeFallbacks(src)
		} else {
			slog.Info("Source fetched", "source", res.Source, "articles", len(batch))
			sourcesUsed = append(sourcesUsed, res.Source)
		}

		if aimlPool == nil && strings.Contains(src.Category, "AI") {
			aimlPool = batch
		}
		all = append(all, batch...)
	}

	return all, sourcesUsed, aimlPool
}

func materializeFallbacks(src config.Source) []domain.Article {
	articles := make([]domain.Article, 0, len(src.Fallbacks))
	for _, fb := range src.Fallbacks {
		article := domain.Article{
			Title:       fb.Title,
			Excerpt:     fb.Excerpt,
			Image:       scraper.FallbackImage(),
			Category:    fb.Category,
			Author:      fb.Author,
			PublishedAt: time.Now(),
			ReadingTime: fb.ReadingTime,
			Link:        fb.Link,
			Source:      src.Name,
		}
		article.EnsureSlug()
		articles = append(articles, article)
	}
	return articles
}

// compose lays the merged articles out as the cache document: the first
// post-shuffle article is featured, the grid takes the first six, and the
// AI/ML strip holds up to three matching articles padded from the pool.
func compose(all []domain.Article, sourcesUsed []string, aimlPool []domain.Article) *cache.Document {
	doc := &cache.Document{
		Timestamp:   time.Now(),
		SourcesUsed: sourcesUsed,
	}
	if doc.SourcesUsed == nil {
		doc.SourcesUsed = []string{}
	}

	var featured domain.Article
	if len(all) > 0 {
		// The featured article also leads the grid, so both carry the
		// byline title.
		all[0].AuthorTitle = featuredAuthorTitle
		featured = all[0]
	} else {
		featured = defaultFeatured()
		featured.AuthorTitle = featuredAuthorTitle
	}
	doc.Featured = &featured

	doc.Articles = all
	if len(all) > gridSize {
		doc.Articles = all[:gridSize]
	}
	if doc.Articles == nil {
		doc.Articles = []domain.Article{}
	}

	doc.AIMLArticles = pickAIML(all, aimlPool)
	if doc.AIMLArticles == nil {
		doc.AIMLArticles = []domain.Article{}
	}
	return doc
}

func pickAIML(all, pool []domain.Article) []domain.Article {
	var picked []domain.Article
	seen := make(map[string]bool)

	for _, a := range all {
		if len(picked) >= aimlLimit {
			break
		}
		if a.IsAIML() {
			picked = append(picked, a)
			seen[a.Slug] = true
		}
	}

	for _, a := range pool {
		if len(picked) >= aimlLimit {
			break
		}
		if seen[a.Slug] {
			continue
		}
		picked = append(picked, a)
		seen[a.Slug] = true
	}

	return picked
}

// defaultFeatured is the evergreen article shown before the very first
// successful refresh.
func defaultFeatured() domain.Article {
	article := domain.Article{
		Title:       "The Future of AI in Enterprise Technology",
		Excerpt:     "How artificial intelligence is transforming business operations and strategy across industries.",
		Image:       scraper.FallbackImage(),
		Category:    "AI & Machine Learning",
		Author:      "TORQ Tech News",
		AuthorTitle: "Editorial Team",
		PublishedAt: time.Now(),
		ReadingTime: 10,
		Link:        "#",
	}
	article.EnsureSlug()
	return article
}
