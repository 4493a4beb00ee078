package scraper

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/torqlabs/torq-news/internal/domain"
	"github.com/torqlabs/torq-news/pkg/utils"
)

const (
	sloanURL     = "https://sloanreview.mit.edu/topic/data-ai-machine-learning/"
	sloanBase    = "https://sloanreview.mit.edu"
	sloanExcerpt = "Business strategy insights from MIT Sloan School of Management"
)

// SloanFetcher scrapes the MIT Sloan Management Review topic page. Listing
// pages carry no excerpts, so every article gets the same strapline.
type SloanFetcher struct {
	client *http.Client
	url    string
}

func NewSloanFetcher(client *http.Client, pageURL string) *SloanFetcher {
	if client == nil {
		client = NewHTTPClient(defaultTimeout)
	}
	if pageURL == "" {
		pageURL = sloanURL
	}
	return &SloanFetcher{client: client, url: pageURL}
}

func (f *SloanFetcher) Source() string {
	return domain.SourceSloanReview
}

func (f *SloanFetcher) Fetch(ctx context.Context, limit int) ([]domain.Article, error) {
	doc, err := fetchDocument(ctx, f.client, f.Source(), f.url)
	if err != nil {
		return nil, err
	}

	var articles []domain.Article
	doc.Find("article").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(articles) >= limit {
			return false
		}

		title := strings.TrimSpace(s.Find("h2, h3, h4").First().Text())
		if title == "" {
			return true
		}

		link, _ := s.Find("a[href]").First().Attr("href")
		if link == "" {
			link = "#"
		}
		if strings.HasPrefix(link, "/") {
			link = sloanBase + link
		}

		article := domain.Article{
			Title:       utils.Clip(title, titleMaxLen),
			Excerpt:     sloanExcerpt,
			Image:       FallbackImage(),
			Category:    "Leadership",
			Author:      "MIT Sloan Review",
			PublishedAt: time.Now(),
			ReadingTime: readingTime(7, 12),
			Link:        link,
			Source:      f.Source(),
		}
		article.EnsureSlug()
		articles = append(articles, article)
		return true
	})

	return articles, nil
}
