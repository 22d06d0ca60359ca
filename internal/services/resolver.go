// Package services contains the route assembly pipeline: node resolution,
// segment building, instruction generation, and itinerary assembly. The
// pipeline is pure and synchronous apart from node lookups at its edge; it
// holds no shared mutable state and is safe for concurrent builds.
package services

import (
	"context"
	"log"
	"time"

	"itinerary-service/internal/domain"
	"itinerary-service/internal/ports"
)

const (
	// DefaultSearchRadiusMeters bounds nearest-node lookups.
	DefaultSearchRadiusMeters = 50.0

	// DefaultResolveTimeout caps each node-resolution call. A lookup that
	// overruns degrades to the coordinate-only fallback instead of failing
	// the build.
	DefaultResolveTimeout = 2 * time.Second
)

// NodeResolver resolves free-form coordinates to known graph nodes.
//
// Resolve is total: missing graph data degrades point quality but never
// aborts itinerary construction. Policy, in order: trust the engine's own
// waypoint-matching node id; nearest-node lookup within the search radius;
// raw coordinates with no id.
type NodeResolver struct {
	lookup       ports.NodeLookup
	radiusMeters float64
	timeout      time.Duration
}

func NewNodeResolver(lookup ports.NodeLookup, radiusMeters float64, timeout time.Duration) *NodeResolver {
	if radiusMeters <= 0 {
		radiusMeters = DefaultSearchRadiusMeters
	}
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}
	return &NodeResolver{lookup: lookup, radiusMeters: radiusMeters, timeout: timeout}
}

// Resolve produces a RoutePoint for the given coordinates. hintNodeID and
// hintName come from the engine's waypoint-matching metadata and take
// precedence over lookup when present.
func (r *NodeResolver) Resolve(
	ctx context.Context,
	coord domain.Coordinates,
	hintNodeID *int64,
	hintName string,
) domain.RoutePoint {
	point := domain.RoutePoint{Lat: coord.Lat, Lon: coord.Lon, Name: hintName}

	if hintNodeID != nil {
		point.NodeID = hintNodeID
		if point.Name == "" {
			point.Name = coord.Label()
		}
		return point
	}

	if r.lookup != nil {
		cctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		match, err := r.lookup.ResolveNearest(cctx, coord.Lat, coord.Lon, r.radiusMeters)
		if err != nil {
			log.Printf("op=resolver.Resolve lat=%.5f lon=%.5f fallback err=%v", coord.Lat, coord.Lon, err)
		} else if match != nil {
			point.NodeID = &match.NodeID
			if point.Name == "" {
				point.Name = match.Name
			}
		}
	}

	if point.Name == "" {
		point.Name = coord.Label()
	}
	return point
}
