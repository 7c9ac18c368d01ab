package news

import (
	"regexp"
	"strings"
	"sync"
)

// DefaultMinScore is the relevance threshold applied by scheduled checks.
// Callers may pass 0 to disable score filtering while keeping keyword rules.
const DefaultMinScore = 0.3

// Filter applies deterministic lexical relevance rules to news items.
// Compiled keyword patterns are cached; keyword sets are small and stable
// per subscriber, so the cache stays bounded. Safe for concurrent use;
// construct one instance at startup and share it.
type Filter struct {
	mu    sync.RWMutex
	cache map[string]*regexp.Regexp
}

// NewFilter creates a relevance filter
func NewFilter() *Filter {
	return &Filter{cache: make(map[string]*regexp.Regexp)}
}

// PassesKeywords reports whether an item survives per-subscriber keyword rules.
// Title, description and content are case-folded into one search text.
// Any exclude keyword matching as a whole word rejects the item; if include
// keywords are present, every one of them must match as a whole word.
// Empty keyword sets impose no constraint.
func (f *Filter) PassesKeywords(item Item, exclude, include []string) bool {
	text := strings.ToLower(item.Title + " " + item.Description + " " + item.Content)

	for _, kw := range exclude {
		if f.containsWord(text, kw) {
			return false
		}
	}

	for _, kw := range include {
		if kw = strings.TrimSpace(kw); kw == "" {
			continue
		}
		if !f.containsWord(text, kw) {
			return false
		}
	}

	return true
}

// Score computes the lexical relevance of an item for a topic, in [0, 1].
// Weights: +0.5 topic in title, +0.2 title starts with topic, +0.3 topic in
// description, +0.2 first occurrence within the first 30% of the description.
// The sum is clamped to 1.0.
func (f *Filter) Score(item Item, topic string) float64 {
	title := strings.ToLower(item.Title)
	desc := strings.ToLower(item.Description)
	topic = strings.ToLower(topic)

	score := 0.0

	if strings.Contains(title, topic) {
		score += 0.5
		if strings.HasPrefix(title, topic) {
			score += 0.2
		}
	}

	if pos := strings.Index(desc, topic); pos >= 0 {
		score += 0.3
		if float64(pos) < float64(len(desc))*0.3 {
			score += 0.2
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// containsWord matches keyword against text with word-boundary semantics,
// i.e. "air" matches "the air quality" but not "airline"
func (f *Filter) containsWord(text, keyword string) bool {
	keyword = strings.TrimSpace(strings.ToLower(keyword))
	if keyword == "" {
		return false
	}
	return f.wordPattern(keyword).MatchString(text)
}

// wordPattern returns the compiled whole-word pattern for a normalized
// keyword, compiling it once per keyword rather than on every item
func (f *Filter) wordPattern(keyword string) *regexp.Regexp {
	f.mu.RLock()
	re, ok := f.cache[keyword]
	f.mu.RUnlock()
	if ok {
		return re
	}

	re = regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
	f.mu.Lock()
	f.cache[keyword] = re
	f.mu.Unlock()
	return re
}
