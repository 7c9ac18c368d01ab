package store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
)

// IsSent reports whether the item was already delivered to the user.
// Point lookup only; MarkSent remains the authority under races.
func (s *Store) IsSent(ctx context.Context, userID int64, itemURL string) (bool, error) {
	var exists bool
	err := s.conn.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM deliveries WHERE user_id = ? AND item_url = ?)",
		userID, itemURL)
	if err != nil {
		return false, fmt.Errorf("check delivery: %w", err)
	}
	return exists, nil
}

// MarkSent records a delivery. Returns false without error when the
// (user, item) pair is already recorded; the uniqueness constraint makes
// concurrent attempts converge to exactly one row.
func (s *Store) MarkSent(ctx context.Context, userID int64, itemURL string) (bool, error) {
	inserted := false
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		query := `
			INSERT INTO deliveries (user_id, item_url)
			VALUES (?, ?)
			ON CONFLICT(user_id, item_url) DO NOTHING
		`
		result, err := s.conn.ExecContext(ctx, query, userID, itemURL)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("insert delivery: %w", err)}
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return &criticalError{err: fmt.Errorf("get rows affected: %w", err)}
		}
		inserted = rows > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// PurgeOlderThan removes delivery records older than the retention window
// and returns the number of rows removed. History cleanup only, it does not
// affect delivery correctness for items still in the feed.
func (s *Store) PurgeOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	var removed int64
	err := retrier.Do(ctx, func() error {
		result, err := s.conn.ExecContext(ctx,
			"DELETE FROM deliveries WHERE sent_at < datetime('now', ?)",
			fmt.Sprintf("-%d days", retentionDays))
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("purge deliveries: %w", err)}
		}

		removed, err = result.RowsAffected()
		if err != nil {
			return &criticalError{err: fmt.Errorf("get rows affected: %w", err)}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
