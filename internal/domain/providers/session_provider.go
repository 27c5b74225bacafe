package providers

import "context"

// SessionProvider owns the ephemeral awaiting-comment marker. The marker is
// set when the last survey question is answered and cleared when the user
// sends a comment or skips; it is the only conversation state not derivable
// from durable storage.
type SessionProvider interface {
	// SetAwaitingComment marks the user as awaiting a free-text comment.
	SetAwaitingComment(ctx context.Context, userID int64) error

	// AwaitingComment reports whether the marker is currently set.
	AwaitingComment(ctx context.Context, userID int64) (bool, error)

	// ClearAwaitingComment removes the marker.
	ClearAwaitingComment(ctx context.Context, userID int64) error
}
