package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/torqlabs/torq-news/internal/apperr"
	"github.com/torqlabs/torq-news/internal/domain"
)

// Document is the whole content cache: one featured article, the article
// grid, the AI/ML strip and the list of sources that answered live. It is
// read by every page render and replaced in full by each refresh cycle.
type Document struct {
	Timestamp    time.Time        `json:"timestamp"`
	Featured     *domain.Article  `json:"featured"`
	Articles     []domain.Article `json:"articles"`
	AIMLArticles []domain.Article `json:"ai_ml_articles"`
	SourcesUsed  []string         `json:"sources_used"`
}

// All returns every article in the document, featured first, without
// duplicating the featured entry when it also sits in the grid.
func (d *Document) All() []domain.Article {
	var all []domain.Article
	seen := make(map[string]bool)

	add := func(a domain.Article) {
		key := a.Slug
		if key == "" {
			key = a.Title
		}
		if seen[key] {
			return
		}
		seen[key] = true
		all = append(all, a)
	}

	if d.Featured != nil {
		add(*d.Featured)
	}
	for _, a := range d.Articles {
		add(a)
	}
	for _, a := range d.AIMLArticles {
		add(a)
	}
	return all
}

// FindBySlug looks an article up by its normalized slug, falling back to a
// prefix match for slugs truncated at the cap.
func (d *Document) FindBySlug(slug string) (*domain.Article, bool) {
	normalized := domain.NormalizeSlug(slug)
	if normalized == "" {
		normalized = slug
	}
	for _, a := range d.All() {
		a := a
		if a.MatchesSlug(normalized) || a.MatchesSlug(slug) {
			return &a, true
		}
	}
	return nil, false
}

// ByCategory filters all articles down to one topic, case-insensitively
// matching the category against its slug form.
func (d *Document) ByCategory(topic string) []domain.Article {
	want := domain.NormalizeSlug(topic)
	var out []domain.Article
	for _, a := range d.All() {
		if domain.NormalizeSlug(a.Category) == want {
			out = append(out, a)
		}
	}
	return out
}

// Store persists the cache document as a single JSON file. Writes replace
// the whole file atomically so concurrent page renders never observe a
// partial document.
type Store struct {
	filePath string
}

func NewStore(filePath string) *Store {
	return &Store{filePath: filePath}
}

func (s *Store) Save(ctx context.Context, doc *Document) error {
	if doc.Timestamp.IsZero() {
		doc.Timestamp = time.Now()
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache document: %w", err)
	}

	dir := filepath.Dir(s.filePath)
	tmp, err := os.CreateTemp(dir, ".data_cache-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.filePath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	return nil
}

func (s *Store) Load(ctx context.Context) (*Document, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.NewNotFoundWrap("content cache not built yet", err)
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode cache file: %w", err)
	}

	return &doc, nil
}

// Stale reports whether the cached document is older than maxAge. A missing
// or unreadable cache counts as stale.
func (s *Store) Stale(ctx context.Context, maxAge time.Duration) bool {
	doc, err := s.Load(ctx)
	if err != nil {
		return true
	}
	return time.Since(doc.Timestamp) > maxAge
}

// Path returns the location of the cache file, used to serve it directly.
func (s *Store) Path() string {
	return s.filePath
}
