// Package search provides full-text article search over the content cache.
// The default backend is an in-process bleve index rebuilt on every refresh
// cycle; an Elasticsearch backend can be selected by configuration.
package search

import (
	"context"

	"github.com/torqlabs/torq-news/internal/domain"
	"github.com/torqlabs/torq-news/internal/dto"
	"github.com/torqlabs/torq-news/pkg/pagination"
)

type Searcher interface {
	// Search runs a full-text query and returns one page of scored hits.
	Search(ctx context.Context, query string, req pagination.OffsetRequest) (*pagination.OffsetResult[dto.SearchHit], error)
	// Reindex replaces the index contents with the given articles.
	Reindex(ctx context.Context, articles []domain.Article) error
	Backend() string
	Healthy(ctx context.Context) bool
	Close() error
}
