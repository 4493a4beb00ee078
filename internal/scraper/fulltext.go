package scraper

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/torqlabs/torq-news/internal/domain"
)

// Extractor pulls readable article content out of a source page: body
// text, a lead image, authors, a short summary and keywords. It is a
// best-effort pass; articles keep their excerpt when a page resists
// extraction.
type Extractor struct {
	client *http.Client
}

func NewExtractor(client *http.Client) *Extractor {
	if client == nil {
		client = NewHTTPClient(defaultTimeout)
	}
	return &Extractor{client: client}
}

// Extracted is the readable content of one article page.
type Extracted struct {
	Text     string
	TopImage string
	Authors  []string
	Summary  string
	Keywords []string
}

const minParagraphLen = 40

// Extract downloads and parses one article page.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*Extracted, error) {
	source := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		source = u.Host
	}

	doc, err := fetchDocument(ctx, e.client, source, pageURL)
	if err != nil {
		return nil, err
	}

	doc.Find("script, style, nav, header, footer, aside, form, noscript").Remove()

	text := collectParagraphs(doc)
	ext := &Extracted{
		Text:     text,
		TopImage: topImage(doc),
		Authors:  metaAuthors(doc),
		Summary:  firstSentences(text, 3),
		Keywords: topKeywords(text, 10),
	}
	return ext, nil
}

// Enrich runs extraction for one article and folds the result into it.
// On failure the article keeps its excerpt as summary and carries no full
// text; the return value reports whether a real extraction happened.
func (e *Extractor) Enrich(ctx context.Context, article *domain.Article) bool {
	if article.Link == "" || article.Link == "#" {
		return false
	}

	ext, err := e.Extract(ctx, article.Link)
	if err != nil || ext.Text == "" {
		article.FullText = ""
		article.Summary = article.Excerpt
		article.Keywords = nil
		return false
	}

	article.FullText = ext.Text
	if ext.Summary != "" {
		article.Summary = ext.Summary
	} else {
		article.Summary = article.Excerpt
	}
	article.Keywords = ext.Keywords

	if ext.TopImage != "" {
		article.Image = ext.TopImage
	}
	if len(ext.Authors) > 0 {
		authors := ext.Authors
		if len(authors) > 2 {
			authors = authors[:2]
		}
		article.Author = strings.Join(authors, ", ")
	}
	return true
}

func collectParagraphs(doc *goquery.Document) string {
	var paragraphs []string
	collect := func(selection *goquery.Selection) {
		selection.Each(func(i int, s *goquery.Selection) {
			p := strings.TrimSpace(s.Text())
			if len(p) >= minParagraphLen {
				paragraphs = append(paragraphs, p)
			}
		})
	}

	for _, scope := range []string{"article p", "main p", "p"} {
		collect(doc.Find(scope))
		if len(paragraphs) > 0 {
			break
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

func topImage(doc *goquery.Document) string {
	if img, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok && img != "" {
		return img
	}
	if img, ok := doc.Find(`meta[name="twitter:image"]`).First().Attr("content"); ok && img != "" {
		return img
	}
	if img, ok := doc.Find("article img").First().Attr("src"); ok {
		return img
	}
	return ""
}

func metaAuthors(doc *goquery.Document) []string {
	content, ok := doc.Find(`meta[name="author"]`).First().Attr("content")
	if !ok || content == "" {
		content, _ = doc.Find(`meta[property="article:author"]`).First().Attr("content")
	}
	if content == "" {
		return nil
	}

	content = strings.ReplaceAll(content, " and ", ",")
	var authors []string
	for _, part := range strings.Split(content, ",") {
		if name := strings.TrimSpace(part); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

// firstSentences takes up to n sentences from the start of the text as a
// cheap stand-in for a generated summary.
func firstSentences(text string, n int) string {
	if text == "" {
		return ""
	}
	firstPara := text
	if idx := strings.Index(text, "\n\n"); idx > 0 {
		firstPara = text[:idx]
	}

	var (
		sentences []string
		start     int
	)
	runes := []rune(firstPara)
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && runes[i+1] != ' ' && runes[i+1] != '\n' {
			continue
		}
		sentence := strings.TrimSpace(string(runes[start : i+1]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
		if len(sentences) >= n {
			break
		}
	}
	if len(sentences) == 0 {
		return strings.TrimSpace(firstPara)
	}
	return strings.Join(sentences, " ")
}

var stopwords = map[string]bool{
	"about": true, "after": true, "also": true, "been": true, "before": true,
	"being": true, "between": true, "both": true, "could": true,
	"does": true, "doing": true, "during": true, "each": true, "from": true,
	"have": true, "having": true, "here": true, "into": true, "just": true,
	"more": true, "most": true, "only": true, "other": true, "over": true,
	"said": true, "same": true, "should": true, "some": true, "such": true,
	"than": true, "that": true, "their": true, "them": true, "then": true,
	"there": true, "these": true, "they": true, "this": true, "those": true,
	"through": true, "under": true, "very": true, "were": true, "what": true,
	"when": true, "where": true, "which": true, "while": true, "will": true,
	"with": true, "would": true, "your": true,
}

// topKeywords ranks words by frequency, dropping stopwords and short
// tokens, mirroring what a keyword pass over the article body yields.
func topKeywords(text string, limit int) []string {
	counts := make(map[string]int)
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		if len(word) < 4 || stopwords[word] {
			continue
		}
		counts[word]++
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > limit {
		words = words[:limit]
	}
	return words
}
