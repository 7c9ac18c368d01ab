package news

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatMessage(t *testing.T) {
	item := ScoredItem{
		Item: Item{
			URL:         "https://example.com/article?id=1&ref=2",
			Title:       "Tesla announces <new> model",
			Description: "<p>The company <b>revealed</b> plans today.</p>",
			Published:   time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC),
			Source:      "Example News",
		},
		Score: 0.7,
	}

	t.Run("full message", func(t *testing.T) {
		msg := FormatMessage("tesla", item, false)

		assert.Contains(t, msg, "📰 <b>tesla</b>")
		assert.Contains(t, msg, "📌 <b>Tesla announces &lt;new&gt; model</b>")
		assert.Contains(t, msg, "The company revealed plans today.") // markup stripped
		assert.NotContains(t, msg, "<p>")
		assert.Contains(t, msg, "🔗 Example News")
		assert.Contains(t, msg, "⏰ 2025-06-01 14:30")
		assert.Contains(t, msg, `<a href="https://example.com/article?id=1&amp;ref=2">Read more</a>`)
		assert.NotContains(t, msg, "📊")
	})

	t.Run("relevance stars floor at score times five", func(t *testing.T) {
		msg := FormatMessage("tesla", item, true)
		assert.Contains(t, msg, "📊 ⭐⭐⭐ (0.70)") // floor(0.7*5) = 3
	})

	t.Run("max score renders five stars", func(t *testing.T) {
		full := item
		full.Score = 1.0
		msg := FormatMessage("tesla", full, true)
		assert.Contains(t, msg, "⭐⭐⭐⭐⭐ (1.00)")
	})

	t.Run("empty optional fields omitted", func(t *testing.T) {
		bare := ScoredItem{Item: Item{URL: "https://example.com/a", Title: "t"}, Score: 0.5}
		msg := FormatMessage("topic", bare, false)
		assert.NotContains(t, msg, "🔗")
		assert.NotContains(t, msg, "⏰")
	})
}
