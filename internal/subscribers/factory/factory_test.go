package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torqlabs/torq-news/internal/config"
	"github.com/torqlabs/torq-news/internal/domain"
)

func TestNewStorer_InMem(t *testing.T) {
	storer, err := NewStorer(context.Background(), BackendInMem, config.SubscribersConfig{})
	require.NoError(t, err)
	t.Cleanup(storer.Close)

	assert.Equal(t, domain.BackendInMem, storer.Backend())
}

func TestNewStorer_SQLite(t *testing.T) {
	cfg := config.SubscribersConfig{SQLitePath: filepath.Join(t.TempDir(), "subs.db")}

	storer, err := NewStorer(context.Background(), BackendSQLite, cfg)
	require.NoError(t, err)
	t.Cleanup(storer.Close)

	assert.Equal(t, domain.BackendSQLite, storer.Backend())
	assert.True(t, storer.Healthy(context.Background()))
}

func TestNewStorer_PostgresRequiresConnString(t *testing.T) {
	_, err := NewStorer(context.Background(), BackendPostgres, config.SubscribersConfig{})
	require.Error(t, err)
}

func TestNewStorer_UnknownBackend(t *testing.T) {
	_, err := NewStorer(context.Background(), "mongodb", config.SubscribersConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported subscribers backend")
}

func TestNewService_SQLitePrimaryNoFallback(t *testing.T) {
	cfg := config.SubscribersConfig{
		Backend:    BackendSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "subs.db"),
	}

	svc, err := NewService(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	assert.True(t, svc.Healthy(context.Background()))

	result, err := svc.Subscribe(context.Background(), "reader@example.com", "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, domain.BackendSQLite, result.Backend)
}
