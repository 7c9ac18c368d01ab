package news

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

// DefaultRSSBaseURL is the Google News RSS search endpoint
const DefaultRSSBaseURL = "https://news.google.com/rss/search"

// RSSSource fetches candidate items from the Google News RSS search feed.
// It is the keyless alternative to the GNews API client and honors the same
// Fetch contract: raw candidates, publish time descending, no filtering.
type RSSSource struct {
	baseURL  string
	language string
	parser   *gofeed.Parser
	sanitize *bluemonday.Policy
	timeout  time.Duration
}

// NewRSSSource creates a Google News RSS source. An empty baseURL selects
// the public endpoint.
func NewRSSSource(baseURL, language string, timeout time.Duration) *RSSSource {
	if baseURL == "" {
		baseURL = DefaultRSSBaseURL
	}
	return &RSSSource{
		baseURL:  baseURL,
		language: language,
		parser:   gofeed.NewParser(),
		sanitize: bluemonday.StrictPolicy(),
		timeout:  timeout,
	}
}

// Fetch retrieves up to max*3 candidates for a topic. RSS descriptions carry
// markup, stripped here so that downstream keyword matching and formatting
// see plain text.
func (s *RSSSource) Fetch(ctx context.Context, topic string, max int) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", topic)
	if s.language != "" {
		params.Set("hl", s.language)
	}

	feed, err := s.parser.ParseURLWithContext(s.baseURL+"?"+params.Encode(), ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch rss for %q: %w", topic, err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, fi := range feed.Items {
		if fi.Link == "" {
			continue
		}
		item := Item{
			URL:         fi.Link,
			Title:       fi.Title,
			Description: s.sanitize.Sanitize(fi.Description),
			Source:      "Google News",
		}
		if fi.PublishedParsed != nil {
			item.Published = *fi.PublishedParsed
		} else if fi.UpdatedParsed != nil {
			item.Published = *fi.UpdatedParsed
		}
		items = append(items, item)
	}

	// the feed is usually newest-first already, but the contract is explicit
	sort.SliceStable(items, func(i, j int) bool { return items[i].Published.After(items[j].Published) })

	if limit := max * overFetchFactor; len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}
