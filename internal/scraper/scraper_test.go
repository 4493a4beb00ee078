package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torqlabs/torq-news/internal/config"
	"github.com/torqlabs/torq-news/internal/domain"
)

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const techCrunchFixture = `
<html><body>
<article class="post-block">
  <h2><a href="https://techcrunch.com/2026/08/20/agent-tooling/">Agent tooling lands for enterprise developers</a></h2>
  <div class="post-block__content">Developers get a toolkit for wiring language models into production workflows.</div>
  <span class="river-byline__authors">Kyle Moreno</span>
  <img src="https://techcrunch.com/img/agents.jpg">
</article>
<article class="post-block">
  <h3><a href="https://techcrunch.com/2026/08/19/chip-round/">Chip designer closes new round</a></h3>
</article>
<article class="post-block">
  <div class="post-block__content">Teaser without any heading, skipped.</div>
</article>
<article class="post-block">
  <h2><a href="https://techcrunch.com/2026/08/18/third/">Third story beyond the limit</a></h2>
</article>
</body></html>`

func TestTechCrunchFetcher_Fetch(t *testing.T) {
	srv := serveHTML(t, techCrunchFixture)

	fetcher := NewTechCrunchFetcher(srv.Client(), srv.URL)
	articles, err := fetcher.Fetch(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	first := articles[0]
	assert.Equal(t, "Agent tooling lands for enterprise developers", first.Title)
	assert.Equal(t, "https://techcrunch.com/2026/08/20/agent-tooling/", first.Link)
	assert.Equal(t, "Developers get a toolkit for wiring language models into production workflows.", first.Excerpt)
	assert.Equal(t, "https://techcrunch.com/img/agents.jpg", first.Image)
	assert.Equal(t, "Kyle Moreno", first.Author)
	assert.Equal(t, "AI & Machine Learning", first.Category)
	assert.Equal(t, domain.SourceTechCrunch, first.Source)
	assert.Equal(t, "agent-tooling-lands-for-enterprise-developers", first.Slug)
	assert.GreaterOrEqual(t, first.ReadingTime, 4)
	assert.LessOrEqual(t, first.ReadingTime, 8)

	second := articles[1]
	assert.Equal(t, second.Title, second.Excerpt, "missing excerpt falls back to the title")
	assert.Equal(t, "TechCrunch", second.Author)
	assert.True(t, strings.HasPrefix(second.Image, "https://images.unsplash.com/"))
}

func TestTechCrunchFetcher_Fetch_CapsLongTitles(t *testing.T) {
	long := strings.Repeat("very long headline ", 10)
	srv := serveHTML(t, `
<article class="post-block">
  <h2><a href="https://techcrunch.com/x/">`+long+`</a></h2>
</article>`)

	fetcher := NewTechCrunchFetcher(srv.Client(), srv.URL)
	articles, err := fetcher.Fetch(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Len(t, []rune(articles[0].Title), 100)
}

const techReviewFixture = `
<html><body>
<article>
  <h3>The next wave of edge inference</h3>
  <a href="/2026/08/19/edge-inference/">Read more</a>
  <p>Chipmakers push model execution out of the data center and onto devices.</p>
</article>
<article>
  <h2>Grid software catches up with renewables</h2>
  <a href="https://www.technologyreview.com/2026/08/18/grid/">Read more</a>
</article>
</body></html>`

func TestTechReviewFetcher_Fetch(t *testing.T) {
	srv := serveHTML(t, techReviewFixture)

	fetcher := NewTechReviewFetcher(srv.Client(), srv.URL)
	articles, err := fetcher.Fetch(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	first := articles[0]
	assert.Equal(t, "The next wave of edge inference", first.Title)
	assert.Equal(t, "https://www.technologyreview.com/2026/08/19/edge-inference/", first.Link, "relative links get the site prefix")
	assert.Equal(t, "Chipmakers push model execution out of the data center and onto devices.", first.Excerpt)
	assert.Equal(t, "Innovation", first.Category)
	assert.Equal(t, "MIT Technology Review", first.Author)
	assert.Equal(t, domain.SourceTechReview, first.Source)
	assert.GreaterOrEqual(t, first.ReadingTime, 8)
	assert.LessOrEqual(t, first.ReadingTime, 12)

	second := articles[1]
	assert.Equal(t, "https://www.technologyreview.com/2026/08/18/grid/", second.Link)
	assert.Equal(t, second.Title, second.Excerpt)
}

const sloanFixture = `
<html><body>
<article>
  <h4>Five questions boards should ask about analytics</h4>
  <a href="/article/five-questions-boards-should-ask-about-analytics/">Read</a>
</article>
</body></html>`

func TestSloanFetcher_Fetch(t *testing.T) {
	srv := serveHTML(t, sloanFixture)

	fetcher := NewSloanFetcher(srv.Client(), srv.URL)
	articles, err := fetcher.Fetch(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, articles, 1)

	got := articles[0]
	assert.Equal(t, "Five questions boards should ask about analytics", got.Title)
	assert.Equal(t, "https://sloanreview.mit.edu/article/five-questions-boards-should-ask-about-analytics/", got.Link)
	assert.Equal(t, sloanExcerpt, got.Excerpt)
	assert.Equal(t, "Leadership", got.Category)
	assert.Equal(t, "MIT Sloan Review", got.Author)
	assert.Equal(t, domain.SourceSloanReview, got.Source)
	assert.Equal(t, "five-questions-boards-should-ask-about-analytics", got.Slug, "slug comes from the article URL")
	assert.True(t, strings.HasPrefix(got.Image, "https://images.unsplash.com/"))
	assert.GreaterOrEqual(t, got.ReadingTime, 7)
	assert.LessOrEqual(t, got.ReadingTime, 12)
}

func TestFetch_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	fetcher := NewSloanFetcher(srv.Client(), srv.URL)
	_, err := fetcher.Fetch(context.Background(), 1)
	require.Error(t, err)

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, domain.FetchErrStatus, fetchErr.Kind)
	assert.Equal(t, domain.SourceSloanReview, fetchErr.Source)
}

func TestFetch_RequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	fetcher := NewTechCrunchFetcher(nil, url)
	_, err := fetcher.Fetch(context.Background(), 1)
	require.Error(t, err)

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, domain.FetchErrRequest, fetchErr.Kind)
}

func TestForSource(t *testing.T) {
	tests := []struct {
		scanner string
		want    any
	}{
		{"techcrunch", &TechCrunchFetcher{}},
		{"techreview", &TechReviewFetcher{}},
		{"sloan", &SloanFetcher{}},
		{"hackernews", &HackerNewsFetcher{}},
		{"rss", &FeedFetcher{}},
	}

	for _, tt := range tests {
		t.Run(tt.scanner, func(t *testing.T) {
			fetcher, err := ForSource(config.Source{Name: "src", Scanner: tt.scanner, URL: "https://example.com"}, nil)
			require.NoError(t, err)
			assert.IsType(t, tt.want, fetcher)
		})
	}

	_, err := ForSource(config.Source{Name: "bad", Scanner: "carrier-pigeon"}, nil)
	assert.Error(t, err)
}

func TestFallbackImage(t *testing.T) {
	img := FallbackImage()
	assert.True(t, strings.HasPrefix(img, "https://images.unsplash.com/photo-"))
	assert.True(t, strings.HasSuffix(img, "?w=800&h=600&fit=crop"))
}
