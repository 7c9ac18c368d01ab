package news

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource returns canned items or an error
type stubSource struct {
	items []Item
	err   error
	calls int
}

func (s *stubSource) Fetch(_ context.Context, _ string, _ int) ([]Item, error) {
	s.calls++
	return s.items, s.err
}

func TestSearch(t *testing.T) {
	filter := NewFilter()

	t.Run("filters, scores and sorts by relevance", func(t *testing.T) {
		src := &stubSource{items: []Item{
			{URL: "u1", Title: "unrelated story", Description: "nothing here"},
			{URL: "u2", Title: "Tesla recall widens", Description: "Tesla recall grows"},
			{URL: "u3", Title: "report mentions Tesla", Description: "a quarterly report without the company name"},
		}}

		results, err := Search(context.Background(), src, filter, "Tesla", SearchOpts{MinScore: 0.3, Max: 5})
		require.NoError(t, err)
		require.Len(t, results, 2)

		// u2 starts with the topic, highest score first
		assert.Equal(t, "u2", results[0].URL)
		assert.Equal(t, "u3", results[1].URL)
		assert.Greater(t, results[0].Score, results[1].Score)
	})

	t.Run("exclude keywords applied", func(t *testing.T) {
		src := &stubSource{items: []Item{
			{URL: "u1", Title: "Tesla recall widens"},
			{URL: "u2", Title: "Tesla ships new model"},
		}}

		results, err := Search(context.Background(), src, filter, "Tesla", SearchOpts{Exclude: []string{"recall"}, Max: 5})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "u2", results[0].URL)
	})

	t.Run("zero threshold keeps keyword-passing items", func(t *testing.T) {
		src := &stubSource{items: []Item{{URL: "u1", Title: "no topic mention"}}}

		results, err := Search(context.Background(), src, filter, "Tesla", SearchOpts{Max: 5})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.InDelta(t, 0.0, results[0].Score, 0.0001)
	})

	t.Run("truncates to max", func(t *testing.T) {
		src := &stubSource{}
		for i := 0; i < 10; i++ {
			src.items = append(src.items, Item{URL: fmt.Sprintf("u%d", i), Title: "Tesla update"})
		}

		results, err := Search(context.Background(), src, filter, "Tesla", SearchOpts{Max: 3})
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("source error propagated", func(t *testing.T) {
		src := &stubSource{err: fmt.Errorf("boom")}
		_, err := Search(context.Background(), src, filter, "Tesla", SearchOpts{Max: 3})
		require.Error(t, err)
	})
}

func TestFormatMessageSearchFile(t *testing.T) {
	item := ScoredItem{
		Item: Item{
			URL:         "https://example.com/article",
			Title:       "Tesla <Q3> results",
			Description: "<p>strong quarter</p>",
			Source:      "Example Wire",
			Published:   time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC),
		},
		Score: 0.7,
	}

	t.Run("includes all fields", func(t *testing.T) {
		msg := FormatMessage("Tesla", item, false)
		assert.Contains(t, msg, "📰 <b>Tesla</b>")
		assert.Contains(t, msg, "Tesla &lt;Q3&gt; results")
		assert.Contains(t, msg, "strong quarter")
		assert.NotContains(t, msg, "<p>")
		assert.Contains(t, msg, "Example Wire")
		assert.Contains(t, msg, "2025-05-01 10:30")
		assert.Contains(t, msg, `<a href="https://example.com/article">Read more</a>`)
		assert.NotContains(t, msg, "⭐")
	})

	t.Run("relevance stars floor of score times five", func(t *testing.T) {
		msg := FormatMessage("Tesla", item, true)
		// 0.7 * 5 = 3.5 -> 3 stars
		assert.Contains(t, msg, "⭐⭐⭐")
		assert.NotContains(t, msg, "⭐⭐⭐⭐")
		assert.Contains(t, msg, "(0.70)")
	})

	t.Run("full score gives five stars", func(t *testing.T) {
		full := item
		full.Score = 1.0
		msg := FormatMessage("Tesla", full, true)
		assert.Contains(t, msg, "⭐⭐⭐⭐⭐")
	})
}
