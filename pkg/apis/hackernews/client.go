package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the public Firebase endpoint of the Hacker News API.
const DefaultBaseURL = "https://hacker-news.firebaseio.com/v0"

const defaultTimeout = 10 * time.Second

type Config func(client *Client)

// Client is a minimal Hacker News API client covering the story endpoints
// the aggregator needs.
type Client struct {
	base url.URL
	http *http.Client
}

func NewClient(baseUrl string, opts ...Config) (*Client, error) {
	if baseUrl == "" {
		baseUrl = DefaultBaseURL
	}
	base, err := url.Parse(baseUrl)
	if err != nil {
		return nil, err
	}

	client := &Client{
		base: *base,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, cfg := range opts {
		cfg(client)
	}

	return client, nil
}

func WithHttpClient(httpClient *http.Client) Config {
	return func(client *Client) {
		client.http = httpClient
	}
}

// Item is a Hacker News item as returned by /item/<id>.json. Only story
// fields are mapped.
type Item struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	By          string `json:"by"`
	Score       int    `json:"score"`
	Time        int64  `json:"time"`
	Descendants int    `json:"descendants"`
}

func (it *Item) IsStory() bool {
	return it != nil && it.Type == "story"
}

// PageURL returns the external story URL, or the HN discussion page for
// self posts like Ask HN.
func (it *Item) PageURL() string {
	if it.URL != "" {
		return it.URL
	}
	return fmt.Sprintf("https://news.ycombinator.com/item?id=%d", it.ID)
}

// TopStories returns the IDs of the current top stories, best first.
func (c *Client) TopStories(ctx context.Context) ([]int, error) {
	var ids []int
	if err := c.get(ctx, "/topstories.json", &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Item fetches one item by ID. Deleted items come back as nil without error.
func (c *Client) Item(ctx context.Context, id int) (*Item, error) {
	var item *Item
	if err := c.get(ctx, fmt.Sprintf("/item/%d.json", id), &item); err != nil {
		return nil, err
	}
	return item, nil
}

func (c *Client) get(ctx context.Context, path string, respData any) error {
	reqURL := c.base.JoinPath(path)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return err
	}

	request.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, respData); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
