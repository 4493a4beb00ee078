package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed sources.yaml
var defaultSourcesYAML []byte

// Source describes a single external news source: which scanner strategy
// fetches it, where, how many articles to take and what to substitute when
// the fetch fails.
type Source struct {
	Name      string            `yaml:"name"`
	Scanner   string            `yaml:"scanner"`
	URL       string            `yaml:"url"`
	Limit     int               `yaml:"limit"`
	Category  string            `yaml:"category"`
	Fallbacks []FallbackArticle `yaml:"fallbacks"`
}

// FallbackArticle is a static placeholder substituted when live scraping of
// its source fails. Publish date and image are assigned at substitution time.
type FallbackArticle struct {
	Title       string `yaml:"title"`
	Excerpt     string `yaml:"excerpt"`
	Category    string `yaml:"category"`
	Author      string `yaml:"author"`
	Link        string `yaml:"link"`
	ReadingTime int    `yaml:"readingTime"`
}

// Catalog is the ordered list of sources a refresh cycle walks.
type Catalog struct {
	Sources []Source `yaml:"sources"`
}

// LoadCatalog returns the embedded source catalog, or the one at path when
// a path is given. An explicit path that cannot be read or parsed is an
// error rather than a silent fallback.
func LoadCatalog(path string) (*Catalog, error) {
	raw := defaultSourcesYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read sources catalog %s: %w", path, err)
		}
		raw = b
	}

	var catalog Catalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parse sources catalog: %w", err)
	}

	if len(catalog.Sources) == 0 {
		return nil, fmt.Errorf("sources catalog is empty")
	}

	for i := range catalog.Sources {
		if catalog.Sources[i].Limit <= 0 {
			catalog.Sources[i].Limit = 1
		}
	}

	return &catalog, nil
}
