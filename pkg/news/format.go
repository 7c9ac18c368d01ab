package news

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// stripTags removes any markup from provider-supplied text before it is
// embedded into a Telegram HTML message
var stripTags = bluemonday.StrictPolicy()

// FormatMessage renders a scored item as a Telegram HTML message.
// Layout and fields match the delivered notification format: topic header,
// bold title, plain description, source, publish time, optional relevance
// stars (one star per 0.2 of score, floor) and a read-more link.
func FormatMessage(topic string, item ScoredItem, showRelevance bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📰 <b>%s</b>\n\n", html.EscapeString(topic))
	fmt.Fprintf(&b, "📌 <b>%s</b>\n\n", html.EscapeString(item.Title))

	if desc := strings.TrimSpace(stripTags.Sanitize(item.Description)); desc != "" {
		b.WriteString(desc)
		b.WriteString("\n\n")
	}

	if item.Source != "" {
		fmt.Fprintf(&b, "🔗 %s\n", html.EscapeString(item.Source))
	}
	if !item.Published.IsZero() {
		fmt.Fprintf(&b, "⏰ %s\n", item.Published.Format("2006-01-02 15:04"))
	}

	if showRelevance {
		stars := strings.Repeat("⭐", int(item.Score*5))
		fmt.Fprintf(&b, "📊 %s (%.2f)\n", stars, item.Score)
	}

	fmt.Fprintf(&b, "\n<a href=%q>Read more</a>", item.URL)

	return b.String()
}
