package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "insights:metrics:snapshot"

// SnapshotCache keeps the latest snapshot in Redis so the dashboard does
// not hammer the database between refreshes. A miss is never an error:
// callers fall through to a fresh computation.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache creates a cache with the given TTL. Returns nil when
// no client is configured; a nil cache is a no-op.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	if client == nil {
		return nil
	}
	return &SnapshotCache{client: client, ttl: ttl}
}

// Get returns the cached snapshot for the project scope, if present.
func (c *SnapshotCache) Get(ctx context.Context, projectID *uuid.UUID) (MessageMetrics, bool) {
	if c == nil {
		return MessageMetrics{}, false
	}

	data, err := c.client.Get(ctx, cacheKey(projectID)).Bytes()
	if err != nil {
		return MessageMetrics{}, false
	}

	var snapshot MessageMetrics
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return MessageMetrics{}, false
	}

	return snapshot, true
}

// Set stores the snapshot under the project scope with the cache TTL.
func (c *SnapshotCache) Set(ctx context.Context, projectID *uuid.UUID, snapshot MessageMetrics) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, cacheKey(projectID), data, c.ttl).Err()
}

// Ping verifies the Redis connection.
func (c *SnapshotCache) Ping(ctx context.Context) error {
	if c == nil {
		return errors.New("snapshot cache not configured")
	}
	return c.client.Ping(ctx).Err()
}

func cacheKey(projectID *uuid.UUID) string {
	if projectID == nil {
		return cacheKeyPrefix + ":all"
	}
	return cacheKeyPrefix + ":" + projectID.String()
}
