// Package factory builds the configured article search backend.
package factory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/torqlabs/torq-news/internal/config"
	"github.com/torqlabs/torq-news/internal/search"
	"github.com/torqlabs/torq-news/internal/search/es"
)

const (
	BackendBleve = "bleve"
	BackendEs    = "es"
)

// NewSearcher returns the backend selected by configuration. An unreachable
// Elasticsearch degrades to the in-process index so search stays up.
func NewSearcher(ctx context.Context, cfg config.SearchConfig) (search.Searcher, error) {
	switch cfg.Backend {
	case BackendEs:
		if len(cfg.EsAddresses) == 0 {
			return nil, errors.New("es search backend requires ES_ADDRESSES")
		}
		searcher, err := es.NewSearcher(ctx, es.ClientConfig{
			Addresses: cfg.EsAddresses,
			IndexName: cfg.EsIndex,
			Username:  cfg.EsUsername,
			Password:  cfg.EsPassword,
		})
		if err != nil {
			slog.Warn("Elasticsearch unavailable, falling back to in-process search", "error", err)
			return search.NewMemSearcher()
		}
		return searcher, nil
	case BackendBleve, "":
		return search.NewMemSearcher()
	default:
		return nil, fmt.Errorf("unsupported search backend: %s", cfg.Backend)
	}
}
