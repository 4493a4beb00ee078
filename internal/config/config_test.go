package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/torqlabs/torq-news/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.CorsOrigins)
	assert.Equal(t, "data_cache.json", cfg.CachePath)
	assert.Equal(t, "sqlite", cfg.Subscribers.Backend)
	assert.Equal(t, "bleve", cfg.Search.Backend)
	assert.Equal(t, "5h0m0s", cfg.Refresh.Interval.String())
	assert.Equal(t, "2s", cfg.Refresh.SourceDelay.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://torq.news, https://www.torq.news")
	t.Setenv("SUBSCRIBERS_BACKEND", "postgres")
	t.Setenv("PG_CONNECTION_STRING", "postgres://localhost:5432/torq")
	t.Setenv("REFRESH_INTERVAL", "30m")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Len(t, cfg.CorsOrigins, 2)
	assert.Equal(t, "postgres", cfg.Subscribers.Backend)
	assert.Equal(t, "postgres://localhost:5432/torq", cfg.Subscribers.PGConnStr)
	assert.Equal(t, "30m0s", cfg.Refresh.Interval.String())
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	t.Setenv("PORT", "not-a-port")
	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port must be a number")

	t.Setenv("PORT", "70000")
	_, err = config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 1 and 65535")
}

func TestLoadCatalog_Embedded(t *testing.T) {
	catalog, err := config.LoadCatalog("")
	require.NoError(t, err)

	require.Len(t, catalog.Sources, 4)

	byName := make(map[string]config.Source)
	for _, s := range catalog.Sources {
		byName[s.Name] = s
	}

	tc, ok := byName["TechCrunch"]
	require.True(t, ok)
	assert.Equal(t, "techcrunch", tc.Scanner)
	assert.Equal(t, 3, tc.Limit)
	assert.Len(t, tc.Fallbacks, 3)

	sloan, ok := byName["MIT Sloan"]
	require.True(t, ok)
	assert.Equal(t, 6, sloan.Limit)
	assert.Empty(t, sloan.Fallbacks)

	hn, ok := byName["Hacker News"]
	require.True(t, ok)
	assert.Equal(t, "hackernews", hn.Scanner)
	assert.Len(t, hn.Fallbacks, 2)
}

func TestLoadCatalog_FileOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sources.yaml")
	content := `sources:
  - name: Example Feed
    scanner: rss
    url: https://example.com/feed.xml
    limit: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	catalog, err := config.LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog.Sources, 1)
	assert.Equal(t, "rss", catalog.Sources[0].Scanner)
	assert.Equal(t, 1, catalog.Sources[0].Limit, "zero limit normalizes to 1")
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := config.LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadCatalog_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sources: {not a list"), 0o644))

	_, err := config.LoadCatalog(path)
	require.Error(t, err)
}
