package dto

import (
	"time"

	"github.com/torqlabs/torq-news/internal/domain"
)

// ArticleSummary is the article shape returned by the JSON APIs. Field
// names match the cache document so the client sees one article format
// everywhere.
type ArticleSummary struct {
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt,omitempty"`
	Category    string    `json:"category,omitempty"`
	Author      string    `json:"author,omitempty"`
	Source      string    `json:"source,omitempty"`
	Slug        string    `json:"slug"`
	Link        string    `json:"link,omitempty"`
	Image       string    `json:"image,omitempty"`
	PublishedAt time.Time `json:"date"`
	ReadingTime int       `json:"reading_time,omitempty"`
}

func NewArticleSummary(a domain.Article) ArticleSummary {
	return ArticleSummary{
		Title:       a.Title,
		Excerpt:     a.Excerpt,
		Category:    a.Category,
		Author:      a.Author,
		Source:      a.Source,
		Slug:        a.Slug,
		Link:        a.Link,
		Image:       a.Image,
		PublishedAt: a.PublishedAt,
		ReadingTime: a.ReadingTime,
	}
}
