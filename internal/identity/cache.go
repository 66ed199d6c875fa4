package identity

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	id "ronda/pkg/domain"
)

const snapshotKeyPrefix = "identity:member:"

// Cache is a read-through Redis cache in front of a Provider. Snapshots are
// short-lived by design: a sanction must become visible within the TTL, and
// Invalidate is called on the sanction path to tighten that window.
type Cache struct {
	provider Provider
	client   *redis.Client
	ttl      time.Duration
	logger   *slog.Logger
}

// CacheOption configures the Cache.
type CacheOption func(*Cache)

// WithLogger sets a logger for cache errors, which are never fatal.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) { c.logger = logger }
}

// NewCache wraps a provider with a Redis snapshot cache.
func NewCache(provider Provider, client *redis.Client, ttl time.Duration, opts ...CacheOption) *Cache {
	c := &Cache{provider: provider, client: client, ttl: ttl}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) GetMemberStatus(ctx context.Context, memberID id.MemberID) (*MemberSnapshot, error) {
	key := snapshotKeyPrefix + memberID.String()

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var snapshot MemberSnapshot
		if err := json.Unmarshal(raw, &snapshot); err == nil {
			return &snapshot, nil
		}
		// A corrupt entry falls through to the provider.
	} else if !errors.Is(err, redis.Nil) && c.logger != nil {
		c.logger.WarnContext(ctx, "identity cache read failed", "member_id", memberID, "error", err)
	}

	snapshot, err := c.provider.GetMemberStatus(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(snapshot); err == nil {
		if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil && c.logger != nil {
			c.logger.WarnContext(ctx, "identity cache write failed", "member_id", memberID, "error", err)
		}
	}
	return snapshot, nil
}

// Invalidate drops a member's cached snapshot, used after sanctions so the
// next risk evaluation sees the new status immediately.
func (c *Cache) Invalidate(ctx context.Context, memberID id.MemberID) {
	if err := c.client.Del(ctx, snapshotKeyPrefix+memberID.String()).Err(); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "identity cache invalidate failed", "member_id", memberID, "error", err)
	}
}
