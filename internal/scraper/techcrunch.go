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

const techCrunchURL = "https://techcrunch.com/category/artificial-intelligence/"

// TechCrunchFetcher scrapes the TechCrunch AI category page.
type TechCrunchFetcher struct {
	client *http.Client
	url    string
}

func NewTechCrunchFetcher(client *http.Client, pageURL string) *TechCrunchFetcher {
	if client == nil {
		client = NewHTTPClient(defaultTimeout)
	}
	if pageURL == "" {
		pageURL = techCrunchURL
	}
	return &TechCrunchFetcher{client: client, url: pageURL}
}

func (f *TechCrunchFetcher) Source() string {
	return domain.SourceTechCrunch
}

func (f *TechCrunchFetcher) Fetch(ctx context.Context, limit int) ([]domain.Article, error) {
	doc, err := fetchDocument(ctx, f.client, f.Source(), f.url)
	if err != nil {
		return nil, err
	}

	var articles []domain.Article
	doc.Find("article.post-block").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(articles) >= limit {
			return false
		}

		title := strings.TrimSpace(s.Find("h2, h3").First().Text())
		if title == "" {
			return true
		}

		link, _ := s.Find("a[href]").First().Attr("href")
		if link == "" {
			link = "#"
		}

		excerpt := strings.TrimSpace(s.Find("div.post-block__content").First().Text())
		if excerpt == "" {
			excerpt = title
		}

		image, _ := s.Find("img").First().Attr("src")
		if image == "" {
			image = FallbackImage()
		}

		author := strings.TrimSpace(s.Find("span.river-byline__authors").First().Text())
		if author == "" {
			author = "TechCrunch"
		}

		article := domain.Article{
			Title:       utils.Clip(title, titleMaxLen),
			Excerpt:     utils.Clip(excerpt, excerptMaxLen),
			Image:       image,
			Category:    "AI & Machine Learning",
			Author:      author,
			PublishedAt: time.Now(),
			ReadingTime: readingTime(4, 8),
			Link:        link,
			Source:      f.Source(),
		}
		article.EnsureSlug()
		articles = append(articles, article)
		return true
	})

	return articles, nil
}
