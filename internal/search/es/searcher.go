// Package es backs article search with an Elasticsearch index, refreshed
// in bulk on every scrape cycle.
package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/operator"

	"github.com/torqlabs/torq-news/internal/domain"
	"github.com/torqlabs/torq-news/internal/dto"
	"github.com/torqlabs/torq-news/pkg/pagination"
)

type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
}

func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}
	return elasticsearch.NewTypedClient(cfg)
}

// searchFields carry query-time boosts, title matches ranking highest.
var searchFields = []string{"title^3.0", "excerpt^2.0", "content", "category", "author"}

type Searcher struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewSearcher(ctx context.Context, config ClientConfig) (*Searcher, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	s := &Searcher{
		client:    client,
		indexName: config.IndexName,
	}
	if err := s.ensureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}
	return s, nil
}

// articleDoc is the indexed article shape. The document id is the slug, so
// re-indexing a refreshed cache overwrites in place.
type articleDoc struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Author      string    `json:"author"`
	Source      string    `json:"source"`
	Link        string    `json:"link"`
	Image       string    `json:"image"`
	PublishedAt time.Time `json:"published_at"`
	ReadingTime int       `json:"reading_time"`
	IndexedAt   time.Time `json:"indexed_at"`
}

func toArticleDoc(a domain.Article) articleDoc {
	content := a.FullText
	if content == "" {
		content = a.Summary
	}
	return articleDoc{
		Slug:        a.Slug,
		Title:       a.Title,
		Excerpt:     a.Excerpt,
		Content:     content,
		Category:    a.Category,
		Author:      a.Author,
		Source:      a.Source,
		Link:        a.Link,
		Image:       a.Image,
		PublishedAt: a.PublishedAt,
		ReadingTime: a.ReadingTime,
		IndexedAt:   time.Now(),
	}
}

func (s *Searcher) Backend() string {
	return "es"
}

func (s *Searcher) ensureIndex(ctx context.Context) error {
	exists, err := s.client.Indices.Exists(s.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Info("Index already exists", "index", s.indexName)
		return nil
	}

	createRes, err := s.client.Indices.Create(s.indexName).
		Mappings(&types.TypeMapping{
			Properties: map[string]types.Property{
				"slug":         types.NewKeywordProperty(),
				"title":        types.NewTextProperty(),
				"excerpt":      types.NewTextProperty(),
				"content":      types.NewTextProperty(),
				"category":     types.NewKeywordProperty(),
				"author":       types.NewTextProperty(),
				"source":       types.NewKeywordProperty(),
				"link":         types.NewKeywordProperty(),
				"image":        types.NewKeywordProperty(),
				"published_at": types.NewDateProperty(),
				"indexed_at":   types.NewDateProperty(),
			},
		}).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", s.indexName)
	return nil
}

// Reindex pushes the refreshed article set through the bulk API. Slugs are
// document ids, so unchanged articles overwrite their previous version.
func (s *Searcher) Reindex(ctx context.Context, articles []domain.Article) error {
	if len(articles) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         s.indexName,
		Client:        s.client,
		NumWorkers:    2,
		FlushBytes:    5e+6, // 5MB
		FlushInterval: 30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed int64

	for _, article := range articles {
		article.EnsureSlug()
		if article.Slug == "" {
			continue
		}
		doc := toArticleDoc(article)

		docBytes, err := json.Marshal(doc)
		if err != nil {
			slog.Error("failed to marshal document", "error", err, "slug", doc.Slug)
			failed++
			continue
		}

		err = bi.Add(
			ctx,
			esutil.BulkIndexerItem{
				Action:     "index",
				DocumentID: doc.Slug,
				Body:       bytes.NewReader(docBytes),
				OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
					successful++
				},
				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					failed++
					if err != nil {
						slog.Error("bulk index error", "error", err, "slug", item.DocumentID)
					} else {
						slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "slug", item.DocumentID)
					}
				},
			},
		)
		if err != nil {
			failed++
			slog.Error("failed to add document to bulk indexer", "error", err, "slug", doc.Slug)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Info("Bulk indexing completed",
		"successful", successful,
		"failed", failed,
		"total", len(articles),
		"index", s.indexName)

	if failed > 0 {
		return fmt.Errorf("failed to index %d out of %d articles", failed, len(articles))
	}
	return nil
}

// Search runs a boosted multi_match query and returns one offset page.
func (s *Searcher) Search(ctx context.Context, query string, req pagination.OffsetRequest) (*pagination.OffsetResult[dto.SearchHit], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	from := (req.Page - 1) * req.Size

	or := operator.Or
	res, err := s.client.Search().
		Index(s.indexName).
		Query(&types.Query{
			MultiMatch: &types.MultiMatchQuery{
				Query:    query,
				Fields:   searchFields,
				Operator: &or,
			},
		}).
		From(from).
		Size(req.Size).
		TrackScores(true).
		Do(ctx)
	if err != nil {
		slog.Error("Elasticsearch query failed", "error", err, "query", query)
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	hits := make([]dto.SearchHit, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc articleDoc
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		var score float64
		if hit.Score_ != nil {
			score = float64(*hit.Score_)
		}
		hits = append(hits, dto.SearchHit{
			ArticleSummary: dto.ArticleSummary{
				Title:       doc.Title,
				Excerpt:     doc.Excerpt,
				Category:    doc.Category,
				Author:      doc.Author,
				Source:      doc.Source,
				Slug:        doc.Slug,
				Link:        doc.Link,
				Image:       doc.Image,
				PublishedAt: doc.PublishedAt,
				ReadingTime: doc.ReadingTime,
			},
			Score: score,
		})
	}

	var total int64
	if res.Hits.Total != nil {
		total = res.Hits.Total.Value
	}

	slog.Info("Es search results fetched",
		"query", query,
		"total_matches", total,
		"returned_count", len(hits))

	return pagination.NewOffsetResult(hits, total, req.Page, req.Size), nil
}

func (s *Searcher) Healthy(ctx context.Context) bool {
	exists, err := s.client.Indices.Exists(s.indexName).Do(ctx)
	return err == nil && exists
}

func (s *Searcher) Close() error {
	return nil
}
