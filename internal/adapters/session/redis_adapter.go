// Package session stores the ephemeral awaiting-comment conversation marker.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/caseflow/ratingbot/internal/domain/providers"
	redisclient "github.com/caseflow/ratingbot/internal/infrastructure/clients/redis"
)

// RedisAdapter implements the SessionProvider interface using Redis. A nil
// client is the degraded mode: the marker is never active and writes are
// no-ops, mirroring how the rating store behaves without Postgres.
type RedisAdapter struct {
	client *redisclient.Client
	ttl    time.Duration
}

// NewRedisAdapter creates a new Redis session adapter. The TTL bounds how
// long an abandoned comment prompt keeps capturing free text; expiry acts
// like a silent skip.
func NewRedisAdapter(client *redisclient.Client, ttl time.Duration) providers.SessionProvider {
	return &RedisAdapter{client: client, ttl: ttl}
}

// SetAwaitingComment marks the user as awaiting a free-text comment.
func (a *RedisAdapter) SetAwaitingComment(ctx context.Context, userID int64) error {
	if a.client == nil {
		return nil
	}
	if err := a.client.Client().Set(ctx, markerKey(userID), "1", a.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set comment marker: %w", err)
	}
	return nil
}

// AwaitingComment reports whether the marker is currently set.
func (a *RedisAdapter) AwaitingComment(ctx context.Context, userID int64) (bool, error) {
	if a.client == nil {
		return false, nil
	}
	_, err := a.client.Client().Get(ctx, markerKey(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read comment marker: %w", err)
	}
	return true, nil
}

// ClearAwaitingComment removes the marker.
func (a *RedisAdapter) ClearAwaitingComment(ctx context.Context, userID int64) error {
	if a.client == nil {
		return nil
	}
	if err := a.client.Client().Del(ctx, markerKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear comment marker: %w", err)
	}
	return nil
}

func markerKey(userID int64) string {
	return fmt.Sprintf("survey:comment:%d", userID)
}
