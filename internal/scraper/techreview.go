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
	techReviewURL  = "https://www.technologyreview.com/topic/artificial-intelligence/"
	techReviewBase = "https://www.technologyreview.com"
)

// TechReviewFetcher scrapes the MIT Technology Review AI topic page.
type TechReviewFetcher struct {
	client *http.Client
	url    string
}

func NewTechReviewFetcher(client *http.Client, pageURL string) *TechReviewFetcher {
	if client == nil {
		client = NewHTTPClient(defaultTimeout)
	}
	if pageURL == "" {
		pageURL = techReviewURL
	}
	return &TechReviewFetcher{client: client, url: pageURL}
}

func (f *TechReviewFetcher) Source() string {
	return domain.SourceTechReview
}

func (f *TechReviewFetcher) Fetch(ctx context.Context, limit int) ([]domain.Article, error) {
	doc, err := fetchDocument(ctx, f.client, f.Source(), f.url)
	if err != nil {
		return nil, err
	}

	var articles []domain.Article
	doc.Find("article").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(articles) >= limit {
			return false
		}

		title := strings.TrimSpace(s.Find("h2, h3, a").First().Text())
		if title == "" {
			return true
		}

		link, _ := s.Find("a[href]").First().Attr("href")
		if link == "" {
			link = "#"
		}
		if strings.HasPrefix(link, "/") {
			link = techReviewBase + link
		}

		excerpt := strings.TrimSpace(s.Find("p").First().Text())
		if excerpt == "" {
			excerpt = title
		}

		image, _ := s.Find("img").First().Attr("src")
		if image == "" {
			image = FallbackImage()
		}

		article := domain.Article{
			Title:       utils.Clip(title, titleMaxLen),
			Excerpt:     utils.Clip(excerpt, excerptMaxLen),
			Image:       image,
			Category:    "Innovation",
			Author:      "MIT Technology Review",
			PublishedAt: time.Now(),
			ReadingTime: readingTime(8, 12),
			Link:        link,
			Source:      f.Source(),
		}
		article.EnsureSlug()
		articles = append(articles, article)
		return true
	})

	return articles, nil
}
