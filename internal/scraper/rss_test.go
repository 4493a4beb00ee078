package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torqlabs/torq-news/internal/domain"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Engineering Blog</title>
    <link>https://blog.example.com</link>
    <item>
      <title>Postgres partitioning without downtime</title>
      <link>https://blog.example.com/postgres-partitioning</link>
      <description>&lt;p&gt;How we split a 2TB table while serving traffic.&lt;/p&gt;</description>
      <author>infra@example.com (Priya Natarajan)</author>
      <pubDate>Mon, 17 Aug 2026 09:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Second post</title>
      <link>https://blog.example.com/second</link>
      <description>Plain text description.</description>
    </item>
    <item>
      <title>Third post past the limit</title>
      <link>https://blog.example.com/third</link>
    </item>
  </channel>
</rss>`

func TestFeedFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssFixture))
	}))
	t.Cleanup(srv.Close)

	fetcher := NewFeedFetcher(srv.Client(), "Example Blog", srv.URL, "Engineering")
	require.Equal(t, "Example Blog", fetcher.Source())

	articles, err := fetcher.Fetch(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	first := articles[0]
	assert.Equal(t, "Postgres partitioning without downtime", first.Title)
	assert.Equal(t, "How we split a 2TB table while serving traffic.", first.Excerpt, "markup is stripped from descriptions")
	assert.Equal(t, "https://blog.example.com/postgres-partitioning", first.Link)
	assert.Equal(t, "Engineering", first.Category)
	assert.Equal(t, "Example Blog", first.Source)
	assert.Equal(t, "postgres-partitioning-without-downtime", first.Slug)
	assert.Equal(t, 2026, first.PublishedAt.Year())

	second := articles[1]
	assert.Equal(t, "Plain text description.", second.Excerpt)
	assert.Equal(t, "Example Engineering Blog", second.Author, "feed title stands in for a missing author")
}

func TestFeedFetcher_Fetch_BadFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not xml at all"))
	}))
	t.Cleanup(srv.Close)

	fetcher := NewFeedFetcher(srv.Client(), "Broken", srv.URL, "")
	_, err := fetcher.Fetch(context.Background(), 2)
	require.Error(t, err)

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "Broken", fetchErr.Source)
}
