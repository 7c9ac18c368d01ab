package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/kibaidar1/BullBear-NewsBot/pkg/news"
	"github.com/kibaidar1/BullBear-NewsBot/pkg/store"
)

//go:generate moq -out mocks/directory.go -pkg mocks -skip-ensure -fmt goimports . Directory
//go:generate moq -out mocks/ledger.go -pkg mocks -skip-ensure -fmt goimports . Ledger
//go:generate moq -out mocks/source.go -pkg mocks -skip-ensure -fmt goimports . Source
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier

// Directory supplies the subscription set with per-subscriber filter rules
type Directory interface {
	ListSubscriptions(ctx context.Context) ([]store.Subscription, error)
}

// Ledger tracks which (subscriber, item) pairs were already delivered
type Ledger interface {
	IsSent(ctx context.Context, userID int64, itemURL string) (bool, error)
	MarkSent(ctx context.Context, userID int64, itemURL string) (bool, error)
	PurgeOlderThan(ctx context.Context, retentionDays int) (int64, error)
}

// Source fetches raw candidate items for a topic
type Source interface {
	Fetch(ctx context.Context, topic string, max int) ([]news.Item, error)
}

// Notifier delivers a rendered message to a subscriber
type Notifier interface {
	Send(ctx context.Context, userID int64, text string) error
}

// Scheduler runs the periodic fetch-filter-fanout pipeline. One timer drives
// news checks, a second independent timer drives ledger retention cleanup.
// Cycles never overlap: a tick arriving while the previous cycle still runs
// is skipped.
type Scheduler struct {
	directory Directory
	ledger    Ledger
	source    Source
	notifier  Notifier
	filter    *news.Filter

	checkInterval   time.Duration
	cycleTimeout    time.Duration
	cleanupInterval time.Duration
	retentionDays   int
	maxResults      int
	maxWorkers      int
	minScore        float64
	deliveryPause   time.Duration
	topicPause      time.Duration
	showRelevance   bool

	running int32
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// Params holds scheduler dependencies and configuration
type Params struct {
	Directory Directory
	Ledger    Ledger
	Source    Source
	Notifier  Notifier
	Filter    *news.Filter

	CheckInterval   time.Duration
	CycleTimeout    time.Duration
	CleanupInterval time.Duration
	RetentionDays   int
	MaxResults      int
	MaxWorkers      int
	MinScore        *float64 // nil means the default; explicit 0 disables score filtering
	DeliveryPause   time.Duration
	TopicPause      time.Duration
	ShowRelevance   bool
}

// NewScheduler creates a scheduler instance with defaults applied
func NewScheduler(p Params) *Scheduler {
	if p.CheckInterval == 0 {
		p.CheckInterval = time.Hour
	}
	if p.CycleTimeout == 0 {
		p.CycleTimeout = 10 * time.Minute
	}
	if p.CleanupInterval == 0 {
		p.CleanupInterval = 24 * time.Hour
	}
	if p.RetentionDays == 0 {
		p.RetentionDays = 7
	}
	if p.MaxResults == 0 {
		p.MaxResults = 3
	}
	if p.MaxWorkers == 0 {
		p.MaxWorkers = 5
	}
	minScore := news.DefaultMinScore
	if p.MinScore != nil {
		minScore = *p.MinScore
	}
	if p.DeliveryPause == 0 {
		p.DeliveryPause = 500 * time.Millisecond
	}
	if p.TopicPause == 0 {
		p.TopicPause = 2 * time.Second
	}

	return &Scheduler{
		directory:       p.Directory,
		ledger:          p.Ledger,
		source:          p.Source,
		notifier:        p.Notifier,
		filter:          p.Filter,
		checkInterval:   p.CheckInterval,
		cycleTimeout:    p.CycleTimeout,
		cleanupInterval: p.CleanupInterval,
		retentionDays:   p.RetentionDays,
		maxResults:      p.MaxResults,
		maxWorkers:      p.MaxWorkers,
		minScore:        minScore,
		deliveryPause:   p.DeliveryPause,
		topicPause:      p.TopicPause,
		showRelevance:   p.ShowRelevance,
	}
}

// Start begins the check and cleanup workers
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.checkWorker(ctx)

	s.wg.Add(1)
	go s.cleanupWorker(ctx)

	lgr.Printf("[INFO] scheduler started, check interval %v, cleanup interval %v, retention %d days",
		s.checkInterval, s.cleanupInterval, s.retentionDays)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// checkWorker runs the fanout cycle on a fixed interval, first run immediate
func (s *Scheduler) checkWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	s.RunCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunCycle(ctx)
		}
	}
}

// cleanupWorker prunes old ledger records on its own longer period,
// independent of delivery correctness
func (s *Scheduler) cleanupWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.ledger.PurgeOlderThan(ctx, s.retentionDays)
			if err != nil {
				lgr.Printf("[ERROR] ledger cleanup failed: %v", err)
				continue
			}
			lgr.Printf("[INFO] ledger cleanup removed %d records older than %d days", removed, s.retentionDays)
		}
	}
}

// cycleStats accumulates counters for the completion log
type cycleStats struct {
	topics    int
	delivered int
	failed    int
	skipped   int
}

// RunCycle executes one fetch-filter-fanout pass. If the previous cycle is
// still in progress the call is dropped: the ledger assumes single-writer
// ordering within a cycle and uncontrolled fetches would defeat rate limits.
func (s *Scheduler) RunCycle(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		lgr.Printf("[WARN] previous news check cycle still running, skipping tick")
		return
	}
	defer atomic.StoreInt32(&s.running, 0)

	ctx, cancel := context.WithTimeout(ctx, s.cycleTimeout)
	defer cancel()

	started := time.Now()
	lgr.Printf("[INFO] news check cycle started")

	subs, err := s.directory.ListSubscriptions(ctx)
	if err != nil {
		lgr.Printf("[ERROR] failed to list subscriptions: %v", err)
		return
	}
	if len(subs) == 0 {
		lgr.Printf("[DEBUG] no subscriptions, nothing to check")
		return
	}

	groups := groupByTopic(subs)
	candidates := s.prefetch(ctx, groups)

	stats := cycleStats{}
	for i, g := range groups {
		items := candidates[g.topic]
		if len(items) == 0 {
			continue
		}
		stats.topics++
		s.fanoutTopic(ctx, g, items, &stats)

		if i < len(groups)-1 && !sleepCtx(ctx, s.topicPause) {
			break
		}
	}

	lgr.Printf("[INFO] news check cycle completed in %v: %d topics with news, %d delivered, %d failed, %d already sent",
		time.Since(started).Round(time.Millisecond), stats.topics, stats.delivered, stats.failed, stats.skipped)
}

// topicGroup holds all subscribers of one topic
type topicGroup struct {
	topic string
	subs  []store.Subscription
}

// groupByTopic groups subscriptions by topic preserving first-seen order.
// N subscribers to the same topic cost one fetch, not N.
func groupByTopic(subs []store.Subscription) []topicGroup {
	idx := make(map[string]int)
	var groups []topicGroup
	for _, sub := range subs {
		i, ok := idx[sub.Topic]
		if !ok {
			i = len(groups)
			idx[sub.Topic] = i
			groups = append(groups, topicGroup{topic: sub.Topic})
		}
		groups[i].subs = append(groups[i].subs, sub)
	}
	return groups
}

// prefetch retrieves candidates for every topic with bounded concurrency,
// exactly one fetch per topic. A fetch failure degrades to an empty
// candidate set for that topic and never fails the cycle.
func (s *Scheduler) prefetch(ctx context.Context, groups []topicGroup) map[string][]news.Item {
	candidates := make(map[string][]news.Item, len(groups))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxWorkers)

	for _, group := range groups {
		topic := group.topic
		g.Go(func() error {
			items, err := s.source.Fetch(gctx, topic, s.maxResults)
			if err != nil {
				lgr.Printf("[WARN] failed to fetch news for %q: %v", topic, err)
				return nil
			}
			lgr.Printf("[DEBUG] fetched %d candidates for %q", len(items), topic)
			mu.Lock()
			candidates[topic] = items
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // per-topic errors already handled, nothing escalates

	return candidates
}

// fanoutTopic delivers a topic's surviving items to each of its subscribers.
// Score is computed once per item since it does not depend on the subscriber;
// keyword rules are evaluated per subscriber. Items are processed in source
// order, publish time descending. Each subscriber gets at most maxResults
// items per cycle: the source over-fetches so that filtered-out items can be
// backfilled, not to inflate the delivery count.
func (s *Scheduler) fanoutTopic(ctx context.Context, g topicGroup, items []news.Item, stats *cycleStats) {
	scored := make([]news.ScoredItem, len(items))
	for i, item := range items {
		scored[i] = news.ScoredItem{Item: item, Score: s.filter.Score(item, g.topic)}
	}

	for _, sub := range g.subs {
		passed := 0
		for _, item := range scored {
			if passed >= s.maxResults {
				break // cap reached for this subscriber
			}
			if ctx.Err() != nil {
				return // cycle timeout or shutdown, pending items retry next cycle
			}
			if item.Score < s.minScore {
				continue
			}
			if !s.filter.PassesKeywords(item.Item, sub.ExcludeKeywords, sub.IncludeKeywords) {
				continue
			}
			passed++

			sent, err := s.ledger.IsSent(ctx, sub.UserID, item.URL)
			if err != nil {
				lgr.Printf("[ERROR] ledger lookup failed for user %d: %v", sub.UserID, err)
				continue
			}
			if sent {
				stats.skipped++
				continue
			}

			if err := s.notifier.Send(ctx, sub.UserID, news.FormatMessage(g.topic, item, s.showRelevance)); err != nil {
				// not recorded in the ledger, eligible for retry next cycle
				lgr.Printf("[WARN] delivery to user %d failed for %s: %v", sub.UserID, item.URL, err)
				stats.failed++
				continue
			}
			stats.delivered++

			if _, err := s.ledger.MarkSent(ctx, sub.UserID, item.URL); err != nil {
				lgr.Printf("[ERROR] failed to record delivery for user %d, item %s: %v", sub.UserID, item.URL, err)
			}

			if !sleepCtx(ctx, s.deliveryPause) {
				return
			}
		}
	}
}

// sleepCtx pauses for d or until ctx is done, reporting whether the full
// pause elapsed
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
