package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/torqlabs/torq-news/internal/domain"
	"github.com/torqlabs/torq-news/pkg/apis/hackernews"
	"github.com/torqlabs/torq-news/pkg/utils"
)

// HackerNewsFetcher pulls top stories through the official Firebase API
// instead of scraping the site.
type HackerNewsFetcher struct {
	client *hackernews.Client
}

func NewHackerNewsFetcher(httpClient *http.Client, baseURL string) (*HackerNewsFetcher, error) {
	opts := []hackernews.Config{}
	if httpClient != nil {
		opts = append(opts, hackernews.WithHttpClient(httpClient))
	}
	client, err := hackernews.NewClient(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &HackerNewsFetcher{client: client}, nil
}

func (f *HackerNewsFetcher) Source() string {
	return domain.SourceHackerNews
}

func (f *HackerNewsFetcher) Fetch(ctx context.Context, limit int) ([]domain.Article, error) {
	ids, err := f.client.TopStories(ctx)
	if err != nil {
		return nil, domain.NewFetchError(f.Source(), domain.FetchErrRequest, err)
	}

	// Overfetch IDs so jobs and polls in the top slots do not eat the limit.
	if len(ids) > limit*3 {
		ids = ids[:limit*3]
	}

	var articles []domain.Article
	for _, id := range ids {
		if len(articles) >= limit {
			break
		}

		item, err := f.client.Item(ctx, id)
		if err != nil {
			slog.Warn("skipping hacker news item", "id", id, "error", err)
			continue
		}
		if !item.IsStory() || item.Title == "" {
			continue
		}

		author := item.By
		if author == "" {
			author = "HN User"
		}

		article := domain.Article{
			Title:       utils.Clip(item.Title, titleMaxLen),
			Excerpt:     fmt.Sprintf("Popular on Hacker News with %d points", item.Score),
			Image:       FallbackImage(),
			Category:    "Technology",
			Author:      author,
			PublishedAt: time.Now(),
			ReadingTime: readingTime(5, 10),
			Link:        item.PageURL(),
			Source:      f.Source(),
		}
		article.EnsureSlug()
		articles = append(articles, article)
	}

	return articles, nil
}
