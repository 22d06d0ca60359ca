package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"itinerary-service/internal/ports"
)

// missSentinel marks a cached "no node within radius" answer, so repeated
// lookups for sparse areas also avoid graph traffic.
const missSentinel = "-"

// RedisNodeCache is a read-through cache over a NodeLookup.
//
// Keys quantize coordinates to the 1e-5 degree grid of the path encoding, so
// boundary points shared across builds of the same route hit the same entry.
// Cache failures are logged and fall through to the wrapped lookup; caching
// must never make resolution less available than the graph itself.
type RedisNodeCache struct {
	next   ports.NodeLookup
	client *redis.Client
	ttl    time.Duration
}

func NewRedisNodeCache(next ports.NodeLookup, client *redis.Client, ttl time.Duration) *RedisNodeCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisNodeCache{next: next, client: client, ttl: ttl}
}

func (c *RedisNodeCache) ResolveNearest(
	ctx context.Context,
	lat, lon, radiusMeters float64,
) (*ports.NodeMatch, error) {
	key := cacheKey(lat, lon, radiusMeters)

	val, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if val == missSentinel {
			return nil, nil
		}
		var m ports.NodeMatch
		if err := json.Unmarshal([]byte(val), &m); err == nil {
			return &m, nil
		}
		// Unreadable entry: treat as a miss and overwrite below.
	case !errors.Is(err, redis.Nil):
		log.Printf("node cache read failed key=%s err=%v", key, err)
	}

	m, err := c.next.ResolveNearest(ctx, lat, lon, radiusMeters)
	if err != nil {
		return nil, err
	}

	payload := missSentinel
	if m != nil {
		b, err := json.Marshal(m)
		if err != nil {
			return m, nil
		}
		payload = string(b)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.Printf("node cache write failed key=%s err=%v", key, err)
	}

	return m, nil
}

func cacheKey(lat, lon, radiusMeters float64) string {
	return fmt.Sprintf("node:%d:%d:%d",
		int64(math.Round(lat*1e5)),
		int64(math.Round(lon*1e5)),
		int64(math.Round(radiusMeters)),
	)
}
