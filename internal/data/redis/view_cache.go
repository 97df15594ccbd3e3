// Package redis caches reconciled wallet views behind a per-user version sequence.
//
// Every change to a user's inputs bumps the sequence. A computation records the
// version it started from and may only store its result while that version is still
// current, so a slow computation over an old snapshot can never overwrite a newer one.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tournament-wallet-ledger/internal/reconciliation"
)

const keyPrefix = "wallet"

// storeIfCurrentScript writes the view only when the caller's version is still the
// latest one.
var storeIfCurrentScript = redis.NewScript(`
-- KEYS[1] = sequence key
-- KEYS[2] = view key
-- ARGV[1] = version the view was computed from
-- ARGV[2] = payload
-- ARGV[3] = ttl_ms
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current ~= tonumber(ARGV[1]) then
  return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// CachedView is the stored form of a reconciliation result.
type CachedView struct {
	Version  int64                 `json:"version"`
	Result   reconciliation.Result `json:"result"`
	CachedAt time.Time             `json:"cached_at"`
}

// ViewCache implements the versioned view cache on Redis
type ViewCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewViewCache creates a cache whose entries expire after ttl.
func NewViewCache(logger *slog.Logger, client redis.UniversalClient, ttl time.Duration) *ViewCache {
	return &ViewCache{client: client, ttl: ttl, logger: logger}
}

func sequenceKey(userID string) string { return fmt.Sprintf("%s:seq:%s", keyPrefix, userID) }
func viewKey(userID string) string     { return fmt.Sprintf("%s:view:%s", keyPrefix, userID) }

// CurrentVersion returns the user's sequence, 0 when nothing was ever invalidated.
func (c *ViewCache) CurrentVersion(ctx context.Context, userID string) (int64, error) {
	v, err := c.client.Get(ctx, sequenceKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		c.logger.Error("Failed to read view version", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to read view version: %w", err)
	}
	return v, nil
}

// Get returns the cached view or nil on a miss.
func (c *ViewCache) Get(ctx context.Context, userID string) (*CachedView, error) {
	raw, err := c.client.Get(ctx, viewKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to read cached view", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to read cached view: %w", err)
	}

	var view CachedView
	if err := json.Unmarshal(raw, &view); err != nil {
		// a payload from an older layout is treated as a miss and overwritten later
		c.logger.Warn("Discarding undecodable cached view", "user_id", userID, "error", err)
		return nil, nil
	}
	return &view, nil
}

// StoreIfCurrent caches result computed from version. It reports false, without
// writing, when the sequence has moved on.
func (c *ViewCache) StoreIfCurrent(ctx context.Context, userID string, version int64, result reconciliation.Result) (bool, error) {
	payload, err := json.Marshal(CachedView{Version: version, Result: result, CachedAt: time.Now().UTC()})
	if err != nil {
		return false, fmt.Errorf("failed to encode view: %w", err)
	}

	stored, err := storeIfCurrentScript.Run(ctx, c.client,
		[]string{sequenceKey(userID), viewKey(userID)},
		version, payload, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		c.logger.Error("Failed to store view", "user_id", userID, "version", version, "error", err)
		return false, fmt.Errorf("failed to store view: %w", err)
	}
	return stored == 1, nil
}

// Invalidate drops the cached view and bumps the sequence, returning the new version.
func (c *ViewCache) Invalidate(ctx context.Context, userID string) (int64, error) {
	var incr *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, sequenceKey(userID))
		pipe.Del(ctx, viewKey(userID))
		return nil
	})
	if err != nil {
		c.logger.Error("Failed to invalidate view", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to invalidate view: %w", err)
	}
	return incr.Val(), nil
}
