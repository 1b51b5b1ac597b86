package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const versionTTL = time.Hour

// putIfGreater stores the version only when it exceeds the cached one.
// Stored versions are monotone per user, so the cache can never regress and
// a stale token can never be resurrected by an out-of-order cache write.
var putIfGreater = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur == false or tonumber(ARGV[1]) > tonumber(cur) then
	redis.call('SET', KEYS[1], ARGV[1], 'EX', ARGV[2])
	return 1
end
return 0
`)

// VersionCache caches the per-user version counter checked on every
// authenticated request, letting stale tokens be rejected without a
// database read. Key format: userver:<user_id>
type VersionCache struct {
	client *redis.Client
}

// NewVersionCache creates a VersionCache wrapping the given Redis client.
func NewVersionCache(client *redis.Client) *VersionCache {
	return &VersionCache{client: client}
}

// Get returns the cached version for the user, reporting a miss when the
// key is absent.
func (c *VersionCache) Get(ctx context.Context, userID string) (int, bool, error) {
	ver, err := c.client.Get(ctx, c.key(userID)).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("version cache get: %w", err)
	}
	return ver, true, nil
}

// Put records the user's current version (expires after versionTTL).
func (c *VersionCache) Put(ctx context.Context, userID string, version int) error {
	if err := putIfGreater.Run(ctx, c.client, []string{c.key(userID)}, version, int(versionTTL.Seconds())).Err(); err != nil {
		return fmt.Errorf("version cache put: %w", err)
	}
	return nil
}

func (c *VersionCache) key(userID string) string {
	return fmt.Sprintf("userver:%s", userID)
}
