package hackernews

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/topstories.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[101, 102, 103]`))
	})
	mux.HandleFunc("/item/101.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":101,"type":"story","title":"A fast key-value store","url":"https://example.com/kv","by":"pg","score":342}`))
	})
	mux.HandleFunc("/item/102.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":102,"type":"job","title":"Hiring Go engineers","by":"ycombinator"}`))
	})
	mux.HandleFunc("/item/103.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_TopStories(t *testing.T) {
	srv := newTestServer(t)

	client, err := NewClient(srv.URL, WithHttpClient(srv.Client()))
	require.NoError(t, err)

	ids, err := client.TopStories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{101, 102, 103}, ids)
}

func TestClient_Item(t *testing.T) {
	srv := newTestServer(t)

	client, err := NewClient(srv.URL, WithHttpClient(srv.Client()))
	require.NoError(t, err)

	item, err := client.Item(context.Background(), 101)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.True(t, item.IsStory())
	assert.Equal(t, "A fast key-value store", item.Title)
	assert.Equal(t, "https://example.com/kv", item.PageURL())

	job, err := client.Item(context.Background(), 102)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.False(t, job.IsStory())

	deleted, err := client.Item(context.Background(), 103)
	require.NoError(t, err)
	assert.Nil(t, deleted)
	assert.False(t, deleted.IsStory())
}

func TestClient_Item_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, WithHttpClient(srv.Client()))
	require.NoError(t, err)

	_, err = client.Item(context.Background(), 1)
	assert.Error(t, err)
}

func TestItem_PageURL_SelfPost(t *testing.T) {
	item := &Item{ID: 55, Type: "story", Title: "Ask HN: how do you test scrapers?"}
	assert.Equal(t, "https://news.ycombinator.com/item?id=55", item.PageURL())
}
