package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the GNews search endpoint
const DefaultBaseURL = "https://gnews.io/api/v4/search"

// overFetchFactor requests extra raw results to compensate for items
// later discarded by keyword rules and score threshold
const overFetchFactor = 3

// Client fetches candidate news items from the GNews API.
// It is stateless per call and performs no filtering or deduplication.
type Client struct {
	baseURL  string
	apiKey   string
	language string
	client   *http.Client
}

// NewClient creates a GNews API client. An empty baseURL selects the
// public endpoint.
func NewClient(baseURL, apiKey, language string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		language: language,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// gnewsResponse mirrors the relevant part of the GNews search payload
type gnewsResponse struct {
	Articles []struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Content     string    `json:"content"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Fetch retrieves up to max*3 raw candidates for a topic, sorted by publish
// time descending. Transport errors, non-200 statuses and malformed payloads
// come back as errors; the caller degrades to an empty candidate set.
func (c *Client) Fetch(ctx context.Context, topic string, max int) ([]Item, error) {
	params := url.Values{}
	params.Set("q", topic)
	params.Set("token", c.apiKey)
	params.Set("lang", c.language)
	params.Set("max", strconv.Itoa(max*overFetchFactor))
	params.Set("sortby", "publishedAt")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch news for %q: %w", topic, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch news for %q: unexpected status %d", topic, resp.StatusCode)
	}

	var payload gnewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode news response for %q: %w", topic, err)
	}

	items := make([]Item, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		if a.URL == "" { // identity is mandatory, skip junk entries
			continue
		}
		items = append(items, Item{
			URL:         a.URL,
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			Published:   a.PublishedAt,
			Source:      a.Source.Name,
		})
	}

	return items, nil
}
