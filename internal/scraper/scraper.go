// Package scraper fetches articles from the external news sources. Each
// source has its own fetcher strategy; all of them normalize into
// domain.Article and report failures as domain.FetchError so the cache
// builder can decide what to substitute.
package scraper

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/torqlabs/torq-news/internal/config"
	"github.com/torqlabs/torq-news/internal/domain"
)

// userAgent mirrors a desktop browser; several sources reject the default
// Go client string.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

const (
	defaultTimeout = 10 * time.Second

	titleMaxLen   = 100
	excerptMaxLen = 200
)

// Fetcher fetches up to limit articles from one external source.
type Fetcher interface {
	Source() string
	Fetch(ctx context.Context, limit int) ([]domain.Article, error)
}

// ForSource builds the fetcher registered under a catalog entry's scanner
// name.
func ForSource(src config.Source, client *http.Client) (Fetcher, error) {
	switch src.Scanner {
	case "techcrunch":
		return NewTechCrunchFetcher(client, src.URL), nil
	case "techreview":
		return NewTechReviewFetcher(client, src.URL), nil
	case "sloan":
		return NewSloanFetcher(client, src.URL), nil
	case "hackernews":
		return NewHackerNewsFetcher(client, src.URL)
	case "rss":
		return NewFeedFetcher(client, src.Name, src.URL, src.Category), nil
	default:
		return nil, fmt.Errorf("unknown scanner %q for source %s", src.Scanner, src.Name)
	}
}

// NewHTTPClient returns the client fetchers share. A zero timeout falls
// back to the default.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// fetchDocument loads a page and hands it to goquery, classifying every
// failure mode into a FetchError.
func fetchDocument(ctx context.Context, client *http.Client, source, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, domain.NewFetchError(source, domain.FetchErrRequest, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, domain.NewFetchError(source, domain.FetchErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewFetchError(source, domain.FetchErrStatus,
			fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, domain.NewFetchError(source, domain.FetchErrParse, err)
	}

	return doc, nil
}

var fallbackImageIDs = []string{
	"photo-1677442136019-21780ecad995",
	"photo-1451187580459-43490279c0fa",
	"photo-1460925895917-afdab827c52f",
	"photo-1552664730-d307ca884978",
}

// FallbackImage picks a stock image for articles whose source page carries
// none.
func FallbackImage() string {
	id := fallbackImageIDs[rand.Intn(len(fallbackImageIDs))]
	return fmt.Sprintf("https://images.unsplash.com/%s?w=800&h=600&fit=crop", id)
}

// readingTime returns a plausible minute estimate in [min, max].
func readingTime(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.Intn(max-min+1)
}
