package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const notifiedTTL = time.Hour

// NotificationDedup suppresses repeated task-assignment mail backed by Redis.
// Key format: notified:<task_id>:<user_id>
type NotificationDedup struct {
	client *redis.Client
}

// NewNotificationDedup creates a NotificationDedup wrapping the given Redis client.
func NewNotificationDedup(client *redis.Client) *NotificationDedup {
	return &NotificationDedup{client: client}
}

// IsDuplicate reports whether this task/user pair was already notified within
// the TTL window.
func (d *NotificationDedup) IsDuplicate(ctx context.Context, taskID, userID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(taskID, userID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this pair has been notified (expires after notifiedTTL).
func (d *NotificationDedup) Mark(ctx context.Context, taskID, userID string) error {
	return d.client.Set(ctx, d.key(taskID, userID), "1", notifiedTTL).Err()
}

func (d *NotificationDedup) key(taskID, userID string) string {
	return fmt.Sprintf("notified:%s:%s", taskID, userID)
}
