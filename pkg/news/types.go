package news

import "time"

// Item represents a single candidate news article fetched from a provider.
// URL is the canonical link and serves as the deduplication identity:
// two fetches of the same real-world article yield the same URL.
type Item struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content,omitempty"`
	Published   time.Time `json:"published"`
	Source      string    `json:"source"`
}

// ScoredItem is an Item with its relevance for a topic attached.
// Scores are transient, recomputed on every pass and never persisted.
type ScoredItem struct {
	Item
	Score float64 `json:"score"`
}
