// Package router binds the site's HTTP surface: rendered pages and the
// JSON API.
package router

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/torqlabs/torq-news/internal/analytics"
	"github.com/torqlabs/torq-news/internal/apperr"
	"github.com/torqlabs/torq-news/internal/cache"
	"github.com/torqlabs/torq-news/internal/subscribers"
	"github.com/torqlabs/torq-news/internal/web"
)

// PageRouter serves the rendered pages from the content cache.
type PageRouter struct {
	e           *echo.Echo
	cache       *cache.Store
	recorder    *analytics.Recorder
	subscribers *subscribers.Service
}

func NewPageRouter(e *echo.Echo, store *cache.Store, recorder *analytics.Recorder, subs *subscribers.Service) *PageRouter {
	return &PageRouter{
		e:           e,
		cache:       store,
		recorder:    recorder,
		subscribers: subs,
	}
}

// Bind registers the page routes. Middleware passed here applies to page
// renders only, not to the API or static assets.
func (r *PageRouter) Bind(mw ...echo.MiddlewareFunc) {
	r.e.GET("/", r.homeHandler, mw...)
	r.e.GET("/article/:slug", r.articleHandler, mw...)
	r.e.GET("/topics/:topic", r.topicHandler, mw...)
	r.e.GET("/admin", r.adminHandler, mw...)
	r.e.GET("/data_cache.json", r.cacheHandler)
}

// loadDocument returns the cache document, or an empty one before the
// first refresh completes so the homepage still renders.
func (r *PageRouter) loadDocument(c echo.Context) (*cache.Document, error) {
	doc, err := r.cache.Load(c.Request().Context())
	if err != nil {
		var nfe *apperr.NotFoundError
		if errors.As(err, &nfe) {
			return &cache.Document{}, nil
		}
		return nil, err
	}
	return doc, nil
}

func (r *PageRouter) homeHandler(c echo.Context) error {
	doc, err := r.loadDocument(c)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "index.html", web.IndexData{
		Featured:    doc.Featured,
		Articles:    doc.Articles,
		AIML:        doc.AIMLArticles,
		Topics:      topicsOf(doc),
		SourcesUsed: doc.SourcesUsed,
		UpdatedAt:   doc.Timestamp,
	})
}

func (r *PageRouter) articleHandler(c echo.Context) error {
	requested := strings.Trim(c.Param("slug"), "-")

	doc, err := r.loadDocument(c)
	if err != nil {
		return err
	}

	article, ok := doc.FindBySlug(requested)
	if !ok {
		return apperr.NewNotFound("article not found")
	}
	article.EnsureSlug()

	// A failed counter write must not lose the page.
	views, err := r.recorder.RecordArticleView(c.Request().Context(), article.Slug, article.Title)
	if err != nil {
		slog.Warn("Article view tracking failed", "slug", article.Slug, "error", err)
	}

	if article.Link != "" && article.Link != "#" {
		return c.Redirect(http.StatusFound, article.Link)
	}

	data := web.ArticleData{
		Article: *article,
		Topics:  topicsOf(doc),
		Views:   views,
	}
	if article.FullText != "" {
		data.Paragraphs = web.Paragraphs(article.FullText)
	} else {
		data.Generated = web.GenerateBody(*article)
	}

	return c.Render(http.StatusOK, "article.html", data)
}

func (r *PageRouter) topicHandler(c echo.Context) error {
	topic := c.Param("topic")

	doc, err := r.loadDocument(c)
	if err != nil {
		return err
	}

	matched := doc.ByCategory(topic)

	// Show the proper category name when any article carries it.
	display := topic
	if len(matched) > 0 {
		display = matched[0].Category
	}

	return c.Render(http.StatusOK, "topics.html", web.TopicsData{
		Topic:    display,
		Topics:   topicsOf(doc),
		Articles: matched,
	})
}

func (r *PageRouter) adminHandler(c echo.Context) error {
	doc, err := r.loadDocument(c)
	if err != nil {
		return err
	}

	count, backend, err := r.subscribers.Count(c.Request().Context())
	if err != nil {
		slog.Warn("Subscriber count unavailable for admin page", "error", err)
	}

	return c.Render(http.StatusOK, "admin.html", web.AdminData{
		Topics:          topicsOf(doc),
		SubscriberCount: count,
		CountBackend:    string(backend),
		CacheUpdatedAt:  doc.Timestamp,
		SourcesUsed:     doc.SourcesUsed,
		ArticleCount:    len(doc.All()),
	})
}

func (r *PageRouter) cacheHandler(c echo.Context) error {
	doc, err := r.cache.Load(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// topicsOf lists the distinct categories in document order for the nav.
func topicsOf(doc *cache.Document) []string {
	var topics []string
	seen := make(map[string]bool)
	for _, a := range doc.All() {
		if a.Category == "" || seen[a.Category] {
			continue
		}
		seen[a.Category] = true
		topics = append(topics, a.Category)
	}
	return topics
}
