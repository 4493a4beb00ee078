package dto

import "github.com/torqlabs/torq-news/pkg/pagination"

// SearchRequest binds the site search query parameters.
type SearchRequest struct {
	Query string `query:"q" validate:"required,min=1"`
	pagination.OffsetRequest
}

// SearchHit is one scored article match.
type SearchHit struct {
	ArticleSummary `json:"article"`
	Score          float64 `json:"score"`
}
