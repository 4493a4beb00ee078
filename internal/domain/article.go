package domain

import (
	"strings"
	"time"
)

// Source names as they appear in the cache document's sources_used list.
const (
	SourceSloanReview = "MIT Sloan"
	SourceTechCrunch  = "TechCrunch"
	SourceTechReview  = "MIT Tech Review"
	SourceHackerNews  = "Hacker News"
)

// Article is one aggregated news entry. Articles are created by a scrape
// cycle and replaced wholesale by the next one; there is no per-article
// update or delete path. Identity is the slug, which is derived from the
// source URL or the title and is not guaranteed unique across cycles.
// JSON field names match the cache document consumed by the site pages.
type Article struct {
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Image       string    `json:"image,omitempty"`
	Category    string    `json:"category"`
	Author      string    `json:"author,omitempty"`
	AuthorTitle string    `json:"author_title,omitempty"`
	PublishedAt time.Time `json:"date"`
	ReadingTime int       `json:"reading_time,omitempty"`
	Link        string    `json:"link,omitempty"`
	FullText    string    `json:"full_text,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Keywords    []string  `json:"keywords,omitempty"`
	Slug        string    `json:"slug,omitempty"`
	Source      string    `json:"source,omitempty"`
}

// EnsureSlug fills Slug from the source link or the title when empty.
func (a *Article) EnsureSlug() {
	if a.Slug != "" {
		return
	}
	if slug := SlugFromURL(a.Link); slug != "" {
		a.Slug = slug
		return
	}
	a.Slug = NormalizeSlug(a.Title)
}

var aimlPhrases = []string{"artificial intelligence", "machine learning", "neural", "deep learning"}

var aimlWords = map[string]bool{"ai": true, "ml": true, "llm": true, "gpt": true}

// IsAIML reports whether the article belongs in the AI/ML highlight strip.
// Short keywords match whole words only so "AI" does not match "air".
func (a *Article) IsAIML() bool {
	text := strings.ToLower(a.Category + " " + a.Title)
	for _, phrase := range aimlPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	for _, word := range strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		if aimlWords[word] {
			return true
		}
	}
	return false
}
