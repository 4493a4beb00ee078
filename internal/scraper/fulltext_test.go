package scraper

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torqlabs/torq-news/internal/domain"
)

const articlePage = `
<html>
<head>
  <meta property="og:image" content="https://cdn.example.com/lead.jpg">
  <meta name="author" content="Dana Reyes and Felix Okafor">
</head>
<body>
<nav>Home | Topics | About</nav>
<article>
  <p>Streaming pipelines moved from batch windows to continuous processing over the last decade. Operators now expect latency measured in seconds.</p>
  <p>The shift changes how teams reason about failure, because replaying a stream is cheaper than reconciling a missed batch window after the fact.</p>
  <p>short</p>
  <p>Vendors responded with managed offerings that hide the hardest parts of stateful stream processing behind declarative configuration.</p>
</article>
<footer>contact us</footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	srv := serveHTML(t, articlePage)

	ext, err := NewExtractor(srv.Client()).Extract(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Contains(t, ext.Text, "Streaming pipelines moved from batch")
	assert.Contains(t, ext.Text, "managed offerings")
	assert.NotContains(t, ext.Text, "short", "paragraphs below the length floor are dropped")
	assert.NotContains(t, ext.Text, "Home | Topics")

	assert.Equal(t, "https://cdn.example.com/lead.jpg", ext.TopImage)
	assert.Equal(t, []string{"Dana Reyes", "Felix Okafor"}, ext.Authors)
	assert.NotEmpty(t, ext.Summary)
	assert.NotEmpty(t, ext.Keywords)
	assert.Contains(t, ext.Keywords, "stream")
}

func TestExtractor_Enrich(t *testing.T) {
	srv := serveHTML(t, articlePage)

	article := domain.Article{
		Title:   "Continuous processing grows up",
		Excerpt: "A look at streaming pipelines.",
		Image:   "https://images.unsplash.com/photo-1451187580459-43490279c0fa?w=800&h=600&fit=crop",
		Author:  "TechCrunch",
		Link:    srv.URL,
	}

	ok := NewExtractor(srv.Client()).Enrich(context.Background(), &article)
	require.True(t, ok)

	assert.NotEmpty(t, article.FullText)
	assert.Equal(t, "https://cdn.example.com/lead.jpg", article.Image, "lead image replaces the stock one")
	assert.Equal(t, "Dana Reyes, Felix Okafor", article.Author)
	assert.NotEmpty(t, article.Summary)
}

func TestExtractor_Enrich_FailureKeepsExcerpt(t *testing.T) {
	article := domain.Article{
		Title:   "Unreachable story",
		Excerpt: "The excerpt survives extraction failure.",
		Link:    "#",
	}

	ok := NewExtractor(nil).Enrich(context.Background(), &article)
	assert.False(t, ok)
	assert.Empty(t, article.FullText)

	srv := serveHTML(t, "<html><body><p>tiny</p></body></html>")
	article.Link = srv.URL
	ok = NewExtractor(srv.Client()).Enrich(context.Background(), &article)
	assert.False(t, ok, "a page with no extractable body counts as a failed extraction")
	assert.Equal(t, article.Excerpt, article.Summary)
	assert.Nil(t, article.Keywords)
}

func TestFirstSentences(t *testing.T) {
	text := "One thing happened. Then another thing happened! Was that all? There was more.\n\nSecond paragraph ignored."
	got := firstSentences(text, 3)
	assert.Equal(t, "One thing happened. Then another thing happened! Was that all?", got)

	assert.Equal(t, "no punctuation at all", firstSentences("no punctuation at all", 2))
	assert.Equal(t, "", firstSentences("", 2))
}

func TestTopKeywords(t *testing.T) {
	text := strings.Repeat("kubernetes ", 5) + strings.Repeat("cluster ", 3) + "with with with the the a an"
	got := topKeywords(text, 5)

	require.NotEmpty(t, got)
	assert.Equal(t, "kubernetes", got[0])
	assert.Contains(t, got, "cluster")
	assert.NotContains(t, got, "with", "stopwords never rank")
	assert.NotContains(t, got, "the", "short tokens never rank")
}
