package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/torqlabs/torq-news/internal/domain"
	"github.com/torqlabs/torq-news/internal/dto"
	"github.com/torqlabs/torq-news/pkg/pagination"
)

// MemSearcher keeps a memory-only bleve index over the current cache
// document. Reindex builds a fresh index and swaps it in, so a refresh
// never leaves deleted articles behind.
type MemSearcher struct {
	mu       sync.RWMutex
	index    bleve.Index
	articles map[string]domain.Article
}

// indexDoc is the searchable projection of an article. The document id is
// the slug; hits are resolved back to full articles through the slug map.
type indexDoc struct {
	Title    string
	Excerpt  string
	Content  string
	Category string
	Author   string
	Source   string
}

func NewMemSearcher() (*MemSearcher, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}
	return &MemSearcher{
		index:    idx,
		articles: make(map[string]domain.Article),
	}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = "en"

	textField := bleve.NewTextFieldMapping()

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("Title", titleField)
	docMapping.AddFieldMappingsAt("Excerpt", textField)
	docMapping.AddFieldMappingsAt("Content", textField)
	docMapping.AddFieldMappingsAt("Category", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Author", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Source", bleve.NewTextFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

func (s *MemSearcher) Backend() string {
	return "bleve"
}

// Reindex builds a new index from scratch and swaps it in under the write
// lock. In-flight searches finish against the old index first.
func (s *MemSearcher) Reindex(ctx context.Context, articles []domain.Article) error {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("failed to create search index: %w", err)
	}

	byID := make(map[string]domain.Article, len(articles))
	batch := idx.NewBatch()
	for _, a := range articles {
		a.EnsureSlug()
		if a.Slug == "" {
			continue
		}
		content := a.FullText
		if content == "" {
			content = a.Summary
		}
		doc := indexDoc{
			Title:    a.Title,
			Excerpt:  a.Excerpt,
			Content:  content,
			Category: a.Category,
			Author:   a.Author,
			Source:   a.Source,
		}
		if err := batch.Index(a.Slug, doc); err != nil {
			return fmt.Errorf("failed to batch article %s: %w", a.Slug, err)
		}
		byID[a.Slug] = a
	}
	if err := idx.Batch(batch); err != nil {
		return fmt.Errorf("failed to commit index batch: %w", err)
	}

	s.mu.Lock()
	old := s.index
	s.index = idx
	s.articles = byID
	s.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Search parses the query with bleve's query string syntax (quotes, boolean
// operators, fuzzy ~) and returns one offset page ranked by score.
func (s *MemSearcher) Search(ctx context.Context, query string, req pagination.OffsetRequest) (*pagination.OffsetResult[dto.SearchHit], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	q := bleve.NewQueryStringQuery(query)
	from := (req.Page - 1) * req.Size
	searchReq := bleve.NewSearchRequestOptions(q, req.Size, from, false)

	results, err := s.index.SearchInContext(ctx, searchReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	hits := make([]dto.SearchHit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		article, ok := s.articles[hit.ID]
		if !ok {
			continue
		}
		hits = append(hits, dto.SearchHit{
			ArticleSummary: dto.NewArticleSummary(article),
			Score:          hit.Score,
		})
	}

	return pagination.NewOffsetResult(hits, int64(results.Total), req.Page, req.Size), nil
}

// Count reports the number of indexed articles.
func (s *MemSearcher) Count() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

func (s *MemSearcher) Healthy(ctx context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := s.index.DocCount()
	return err == nil
}

func (s *MemSearcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}
