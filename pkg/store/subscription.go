package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
)

// Subscription represents a watched topic for a single subscriber with
// per-subscriber keyword filters
type Subscription struct {
	ID              int64
	UserID          int64
	Topic           string
	ExcludeKeywords []string
	IncludeKeywords []string
	CreatedAt       time.Time
}

// AddResult is the outcome of AddSubscription. Duplicate is a normal
// outcome, not an error: callers branch on the value.
type AddResult int

// AddSubscription outcomes
const (
	Added AddResult = iota
	Duplicate
)

// subscriptionRow is the sqlite representation with JSON-encoded keyword sets
type subscriptionRow struct {
	ID              int64     `db:"id"`
	UserID          int64     `db:"user_id"`
	Topic           string    `db:"topic"`
	ExcludeKeywords string    `db:"exclude_keywords"`
	IncludeKeywords string    `db:"include_keywords"`
	CreatedAt       time.Time `db:"created_at"`
}

func (r *subscriptionRow) toSubscription() (Subscription, error) {
	sub := Subscription{
		ID:        r.ID,
		UserID:    r.UserID,
		Topic:     r.Topic,
		CreatedAt: r.CreatedAt,
	}
	if err := json.Unmarshal([]byte(r.ExcludeKeywords), &sub.ExcludeKeywords); err != nil {
		return sub, fmt.Errorf("decode exclude keywords: %w", err)
	}
	if err := json.Unmarshal([]byte(r.IncludeKeywords), &sub.IncludeKeywords); err != nil {
		return sub, fmt.Errorf("decode include keywords: %w", err)
	}
	return sub, nil
}

// AddSubscription inserts a subscription, reporting Duplicate when the
// (user, topic) pair already exists. The uniqueness constraint is the source
// of truth, not a prior lookup.
func (s *Store) AddSubscription(ctx context.Context, sub Subscription) (AddResult, error) {
	exclude, err := json.Marshal(keywordsOrEmpty(sub.ExcludeKeywords))
	if err != nil {
		return Added, fmt.Errorf("encode exclude keywords: %w", err)
	}
	include, err := json.Marshal(keywordsOrEmpty(sub.IncludeKeywords))
	if err != nil {
		return Added, fmt.Errorf("encode include keywords: %w", err)
	}

	res := Added
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err = retrier.Do(ctx, func() error {
		query := `
			INSERT INTO subscriptions (user_id, topic, exclude_keywords, include_keywords)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(user_id, topic) DO NOTHING
		`
		result, err := s.conn.ExecContext(ctx, query, sub.UserID, sub.Topic, string(exclude), string(include))
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("insert subscription: %w", err)}
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return &criticalError{err: fmt.Errorf("get rows affected: %w", err)}
		}
		if rows == 0 {
			res = Duplicate
		}
		return nil
	})
	if err != nil {
		return Added, err
	}
	return res, nil
}

// RemoveSubscription deletes a subscription, reporting whether it existed
func (s *Store) RemoveSubscription(ctx context.Context, userID int64, topic string) (bool, error) {
	result, err := s.conn.ExecContext(ctx,
		"DELETE FROM subscriptions WHERE user_id = ? AND topic = ?", userID, topic)
	if err != nil {
		return false, fmt.Errorf("delete subscription: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows > 0, nil
}

// ListSubscriptions returns all subscriptions with their filters, in
// creation order. This is the directory view consumed by the fanout cycle.
func (s *Store) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	var rows []subscriptionRow
	query := `SELECT * FROM subscriptions ORDER BY created_at, id`
	if err := s.conn.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	subs := make([]Subscription, 0, len(rows))
	for _, r := range rows {
		sub, err := r.toSubscription()
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// GetUserSubscriptions returns one user's subscriptions in creation order
func (s *Store) GetUserSubscriptions(ctx context.Context, userID int64) ([]Subscription, error) {
	var rows []subscriptionRow
	query := `SELECT * FROM subscriptions WHERE user_id = ? ORDER BY created_at, id`
	if err := s.conn.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("get user subscriptions: %w", err)
	}

	subs := make([]Subscription, 0, len(rows))
	for _, r := range rows {
		sub, err := r.toSubscription()
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// GetSubscription retrieves a single subscription by user and topic
func (s *Store) GetSubscription(ctx context.Context, userID int64, topic string) (*Subscription, error) {
	var row subscriptionRow
	query := `SELECT * FROM subscriptions WHERE user_id = ? AND topic = ?`
	err := s.conn.GetContext(ctx, &row, query, userID, topic)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("subscription not found")
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	sub, err := row.toSubscription()
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// keywordsOrEmpty normalizes nil to an empty slice so JSON stays "[]"
func keywordsOrEmpty(kw []string) []string {
	if kw == nil {
		return []string{}
	}
	return kw
}
