package graph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary-service/internal/ports"
)

// mockNodeLookup is a hand-written test double for ports.NodeLookup.
type mockNodeLookup struct {
	calls          int
	resolveNearest func(ctx context.Context, lat, lon, radiusMeters float64) (*ports.NodeMatch, error)
}

func (m *mockNodeLookup) ResolveNearest(ctx context.Context, lat, lon, radiusMeters float64) (*ports.NodeMatch, error) {
	m.calls++
	return m.resolveNearest(ctx, lat, lon, radiusMeters)
}

var _ ports.NodeLookup = (*mockNodeLookup)(nil)

func newTestCache(t *testing.T, next ports.NodeLookup) *RedisNodeCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisNodeCache(next, client, time.Hour)
}

func TestRedisNodeCacheServesSecondLookupFromCache(t *testing.T) {
	next := &mockNodeLookup{
		resolveNearest: func(_ context.Context, _, _, _ float64) (*ports.NodeMatch, error) {
			return &ports.NodeMatch{NodeID: 7, Name: "Marché Central"}, nil
		},
	}
	cache := newTestCache(t, next)

	first, err := cache.ResolveNearest(context.Background(), 3.848, 11.5021, 50)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := cache.ResolveNearest(context.Background(), 3.848, 11.5021, 50)
	require.NoError(t, err)
	require.NotNil(t, second)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, int64(7), second.NodeID)
	assert.Equal(t, "Marché Central", second.Name)
}

func TestRedisNodeCacheCachesMisses(t *testing.T) {
	next := &mockNodeLookup{
		resolveNearest: func(_ context.Context, _, _, _ float64) (*ports.NodeMatch, error) {
			return nil, nil
		},
	}
	cache := newTestCache(t, next)

	m, err := cache.ResolveNearest(context.Background(), 3.848, 11.5021, 50)
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = cache.ResolveNearest(context.Background(), 3.848, 11.5021, 50)
	require.NoError(t, err)
	assert.Nil(t, m)

	assert.Equal(t, 1, next.calls)
}

func TestRedisNodeCacheDistinguishesRadii(t *testing.T) {
	next := &mockNodeLookup{
		resolveNearest: func(_ context.Context, _, _, radius float64) (*ports.NodeMatch, error) {
			if radius < 100 {
				return nil, nil
			}
			return &ports.NodeMatch{NodeID: 9}, nil
		},
	}
	cache := newTestCache(t, next)

	m, err := cache.ResolveNearest(context.Background(), 3.848, 11.5021, 50)
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = cache.ResolveNearest(context.Background(), 3.848, 11.5021, 200)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, int64(9), m.NodeID)
	assert.Equal(t, 2, next.calls)
}

func TestRedisNodeCachePropagatesLookupErrors(t *testing.T) {
	lookupErr := errors.New("graph unavailable")
	next := &mockNodeLookup{
		resolveNearest: func(_ context.Context, _, _, _ float64) (*ports.NodeMatch, error) {
			return nil, lookupErr
		},
	}
	cache := newTestCache(t, next)

	_, err := cache.ResolveNearest(context.Background(), 3.848, 11.5021, 50)
	assert.ErrorIs(t, err, lookupErr)
}
