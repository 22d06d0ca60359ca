package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary-service/internal/domain"
	"itinerary-service/internal/ports"
	"itinerary-service/internal/services"
)

// mockNodeLookup is a hand-written test double for ports.NodeLookup.
type mockNodeLookup struct {
	resolveNearest func(ctx context.Context, lat, lon, radiusMeters float64) (*ports.NodeMatch, error)
}

func (m *mockNodeLookup) ResolveNearest(ctx context.Context, lat, lon, radiusMeters float64) (*ports.NodeMatch, error) {
	return m.resolveNearest(ctx, lat, lon, radiusMeters)
}

var _ ports.NodeLookup = (*mockNodeLookup)(nil)

func missLookup() *mockNodeLookup {
	return &mockNodeLookup{
		resolveNearest: func(_ context.Context, _, _, _ float64) (*ports.NodeMatch, error) {
			return nil, nil
		},
	}
}

func TestResolveTrustsEngineHint(t *testing.T) {
	lookup := &mockNodeLookup{
		resolveNearest: func(_ context.Context, _, _, _ float64) (*ports.NodeMatch, error) {
			t.Fatal("lookup must not be called when a hint node id is present")
			return nil, nil
		},
	}
	r := services.NewNodeResolver(lookup, 50, time.Second)

	hint := int64(42)
	p := r.Resolve(context.Background(), domain.Coordinates{Lat: 3.848, Lon: 11.5021}, &hint, "Poste Centrale")

	require.NotNil(t, p.NodeID)
	assert.Equal(t, int64(42), *p.NodeID)
	assert.Equal(t, "Poste Centrale", p.Name)
}

func TestResolveUsesNearestNode(t *testing.T) {
	var gotRadius float64
	lookup := &mockNodeLookup{
		resolveNearest: func(_ context.Context, _, _, radius float64) (*ports.NodeMatch, error) {
			gotRadius = radius
			return &ports.NodeMatch{NodeID: 7, Name: "Carrefour Bastos"}, nil
		},
	}
	r := services.NewNodeResolver(lookup, 50, time.Second)

	p := r.Resolve(context.Background(), domain.Coordinates{Lat: 3.848, Lon: 11.5021}, nil, "")

	assert.Equal(t, 50.0, gotRadius)
	require.NotNil(t, p.NodeID)
	assert.Equal(t, int64(7), *p.NodeID)
	assert.Equal(t, "Carrefour Bastos", p.Name)
}

func TestResolveMissFallsBackToCoordinates(t *testing.T) {
	r := services.NewNodeResolver(missLookup(), 50, time.Second)

	p := r.Resolve(context.Background(), domain.Coordinates{Lat: 3.848, Lon: 11.5021}, nil, "")

	assert.Nil(t, p.NodeID)
	assert.Equal(t, "3.84800, 11.50210", p.Name)
	assert.Equal(t, 3.848, p.Lat)
	assert.Equal(t, 11.5021, p.Lon)
}

func TestResolveLookupErrorNeverFails(t *testing.T) {
	lookup := &mockNodeLookup{
		resolveNearest: func(_ context.Context, _, _, _ float64) (*ports.NodeMatch, error) {
			return nil, errors.New("graph unavailable")
		},
	}
	r := services.NewNodeResolver(lookup, 50, time.Second)

	p := r.Resolve(context.Background(), domain.Coordinates{Lat: 3.848, Lon: 11.5021}, nil, "")

	assert.Nil(t, p.NodeID)
	assert.NotEmpty(t, p.Name)
}

func TestResolveTimeoutFallsBack(t *testing.T) {
	lookup := &mockNodeLookup{
		resolveNearest: func(ctx context.Context, _, _, _ float64) (*ports.NodeMatch, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	r := services.NewNodeResolver(lookup, 50, 20*time.Millisecond)

	start := time.Now()
	p := r.Resolve(context.Background(), domain.Coordinates{Lat: 3.848, Lon: 11.5021}, nil, "")

	assert.Less(t, time.Since(start), time.Second)
	assert.Nil(t, p.NodeID)
	assert.Equal(t, "3.84800, 11.50210", p.Name)
}

func TestResolveNilLookup(t *testing.T) {
	r := services.NewNodeResolver(nil, 0, 0)

	p := r.Resolve(context.Background(), domain.Coordinates{Lat: -1.5, Lon: 29.63}, nil, "")

	assert.Nil(t, p.NodeID)
	assert.Equal(t, "-1.50000, 29.63000", p.Name)
}
