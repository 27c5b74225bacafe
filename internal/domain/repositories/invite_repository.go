package repositories

import "context"

// InviteRepository hands out the one-shot survey invitation lock.
type InviteRepository interface {
	// Acquire returns true exactly once per user: the first caller inserts
	// the lock row, every later call sees it already taken.
	Acquire(ctx context.Context, userID int64) (bool, error)
}
