// Package web renders the site pages. Templates and static assets are
// embedded so the binary serves itself.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/torqlabs/torq-news/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// IndexData feeds the homepage template.
type IndexData struct {
	Featured    *domain.Article
	Articles    []domain.Article
	AIML        []domain.Article
	Topics      []string
	SourcesUsed []string
	UpdatedAt   time.Time
}

// ArticleData feeds the article page. Paragraphs carries extracted full
// text; Generated fills in when no full text was captured.
type ArticleData struct {
	Article    domain.Article
	Topics     []string
	Views      int64
	Paragraphs []string
	Generated  *GeneratedBody
}

// TopicsData feeds the category listing page.
type TopicsData struct {
	Topic    string
	Topics   []string
	Articles []domain.Article
}

// AdminData feeds the operations page.
type AdminData struct {
	Topics          []string
	SubscriberCount int64
	CountBackend    string
	CacheUpdatedAt  time.Time
	SourcesUsed     []string
	ArticleCount    int
}

type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"slug": func(a domain.Article) string {
			a.EnsureSlug()
			return a.Slug
		},
		"prettyDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("January 2, 2006")
		},
		"join": strings.Join,
	}

	t, err := template.New("site").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// Register installs the page renderer and the static asset routes.
func Register(e *echo.Echo) error {
	r, err := NewRenderer()
	if err != nil {
		return err
	}
	e.Renderer = r
	e.StaticFS("/static", echo.MustSubFS(staticFS, "static"))
	return nil
}

// Paragraphs splits extracted full text into renderable paragraphs.
func Paragraphs(fullText string) []string {
	var out []string
	for _, block := range strings.Split(fullText, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			out = append(out, block)
		}
	}
	return out
}
