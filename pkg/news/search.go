package news

import (
	"context"
	"fmt"
	"sort"
)

// Source fetches raw candidate items for a topic
type Source interface {
	Fetch(ctx context.Context, topic string, max int) ([]Item, error)
}

// SearchOpts controls on-demand search filtering
type SearchOpts struct {
	Exclude  []string
	Include  []string
	MinScore float64
	Max      int
}

// Search runs the on-demand path: fetch candidates for a topic, apply keyword
// rules and the score threshold, and return the survivors sorted by relevance
// descending, truncated to opts.Max.
func Search(ctx context.Context, src Source, filter *Filter, topic string, opts SearchOpts) ([]ScoredItem, error) {
	if opts.Max <= 0 {
		opts.Max = 5
	}

	items, err := src.Fetch(ctx, topic, opts.Max)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", topic, err)
	}

	result := make([]ScoredItem, 0, opts.Max)
	for _, item := range items {
		if !filter.PassesKeywords(item, opts.Exclude, opts.Include) {
			continue
		}
		score := filter.Score(item, topic)
		if score < opts.MinScore {
			continue
		}
		result = append(result, ScoredItem{Item: item, Score: score})
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].Score > result[j].Score })

	if len(result) > opts.Max {
		result = result[:opts.Max]
	}
	return result, nil
}
