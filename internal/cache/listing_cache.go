package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"tours365/internal/model"
)

// DefaultTTL is how long live partner results are served before refetching.
const DefaultTTL = 6 * time.Hour

const keyPrefix = "tours:listing:"

// ListingCache keeps normalized summaries from live fetches in redis.
type ListingCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// Key identifies a site's summaries for an ordered list of codes.
func Key(site string, codes []string) string {
	sum := sha1.Sum([]byte(strings.Join(codes, ",")))
	return keyPrefix + site + ":" + hex.EncodeToString(sum[:])
}

// Get returns the cached summaries. Misses, redis errors and undecodable
// values all report false.
func (c *ListingCache) Get(ctx context.Context, key string) ([]model.Summary, bool) {
	val, err := c.Client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var summaries []model.Summary
	if err := json.Unmarshal(val, &summaries); err != nil {
		return nil, false
	}
	return summaries, true
}

func (c *ListingCache) Set(ctx context.Context, key string, summaries []model.Summary) error {
	b, err := json.Marshal(summaries)
	if err != nil {
		return err
	}

	ttl := c.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return c.Client.Set(ctx, key, b, ttl).Err()
}
