package scraper

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/torqlabs/torq-news/internal/domain"
	"github.com/torqlabs/torq-news/pkg/utils"
)

// FeedFetcher reads any RSS or Atom feed, so new sources can be added to
// the catalog without writing a scraper for them.
type FeedFetcher struct {
	parser   *gofeed.Parser
	name     string
	url      string
	category string
}

func NewFeedFetcher(client *http.Client, name, feedURL, category string) *FeedFetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	if client != nil {
		parser.Client = client
	}
	if category == "" {
		category = "Technology"
	}
	return &FeedFetcher{
		parser:   parser,
		name:     name,
		url:      feedURL,
		category: category,
	}
}

func (f *FeedFetcher) Source() string {
	return f.name
}

func (f *FeedFetcher) Fetch(ctx context.Context, limit int) ([]domain.Article, error) {
	feed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, domain.NewFetchError(f.Source(), domain.FetchErrRequest, err)
	}

	var articles []domain.Article
	for _, item := range feed.Items {
		if len(articles) >= limit {
			break
		}
		if item.Title == "" {
			continue
		}

		excerpt := stripHTML(item.Description)
		if excerpt == "" {
			excerpt = item.Title
		}

		author := feed.Title
		if item.Author != nil && item.Author.Name != "" {
			author = item.Author.Name
		}

		image := ""
		if item.Image != nil {
			image = item.Image.URL
		}
		if image == "" {
			image = FallbackImage()
		}

		published := time.Now()
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}

		article := domain.Article{
			Title:       utils.Clip(strings.TrimSpace(item.Title), titleMaxLen),
			Excerpt:     utils.Clip(excerpt, excerptMaxLen),
			Image:       image,
			Category:    f.category,
			Author:      author,
			PublishedAt: published,
			ReadingTime: readingTime(4, 10),
			Link:        item.Link,
			Source:      f.Source(),
		}
		article.EnsureSlug()
		articles = append(articles, article)
	}

	return articles, nil
}

// stripHTML flattens feed descriptions that carry markup down to text.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
