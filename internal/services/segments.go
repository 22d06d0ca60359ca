package services

import (
	"context"
	"fmt"
	"math"
	"sync"

	"itinerary-service/internal/domain"
	"itinerary-service/internal/ports"
)

// DefaultResolveConcurrency bounds the fan-out of node-resolution calls for
// a single build.
const DefaultResolveConcurrency = 5

// maxPlausibleSpeedKmh caps the derived speed heuristic. Values at or above
// this are treated as engine noise and the speed is left absent.
const maxPlausibleSpeedKmh = 200.0

// SegmentBuilder turns the engine's leg/step structure into ordered
// RouteSegments with resolved endpoints, converted metrics, and generated
// instructions.
type SegmentBuilder struct {
	resolver    *NodeResolver
	locale      Locale
	concurrency int
}

func NewSegmentBuilder(resolver *NodeResolver, locale Locale, concurrency int) *SegmentBuilder {
	if concurrency <= 0 {
		concurrency = DefaultResolveConcurrency
	}
	return &SegmentBuilder{resolver: resolver, locale: locale, concurrency: concurrency}
}

// boundary is one decision point between steps, before resolution.
type boundary struct {
	coord      domain.Coordinates
	hintNodeID *int64
	hintName   string
}

// Build flattens the route's legs into one ordered step list and emits one
// segment per step.
//
// Boundary points are resolved concurrently with bounded fan-out; results
// are written back by index, so concurrency never reorders segments. Each
// segment's end point is reused verbatim as the next segment's start point.
//
// Fails with domain.ErrEmptyRoute when the route has zero legs or any leg
// has zero steps.
func (b *SegmentBuilder) Build(
	ctx context.Context,
	route ports.EngineRoute,
	waypoints []ports.EngineWaypoint,
	path []domain.Coordinates,
) ([]domain.RouteSegment, error) {
	if len(route.Legs) == 0 {
		return nil, fmt.Errorf("build segments: route has no legs: %w", domain.ErrEmptyRoute)
	}

	// Flatten steps and remember which flat index starts each leg: those
	// boundaries coincide with requested waypoints and carry the engine's
	// matching metadata as hints.
	var steps []ports.EngineStep
	legStart := make(map[int]int) // flat step index -> engine waypoint index
	for li, leg := range route.Legs {
		if len(leg.Steps) == 0 {
			return nil, fmt.Errorf("build segments: leg %d has no steps: %w", li, domain.ErrEmptyRoute)
		}
		legStart[len(steps)] = li
		steps = append(steps, leg.Steps...)
	}

	bounds := b.collectBoundaries(steps, legStart, waypoints, path)

	points := b.resolveBoundaries(ctx, bounds)
	points[0].Role = domain.RoleStart
	points[len(points)-1].Role = domain.RoleEnd
	// Interior boundaries that start a leg coincide with requested
	// waypoints; the rest are unmarked internal decision points.
	for idx := range legStart {
		if idx > 0 {
			points[idx].Role = domain.RoleWaypoint
		}
	}

	segments := make([]domain.RouteSegment, 0, len(steps))
	for i, step := range steps {
		seg := domain.RouteSegment{
			SegmentNumber: i + 1,
			EdgeID:        step.EdgeID,
			StreetName:    step.Name,
			RoadType:      domain.NormalizeRoadType(step.RoadClass),
			DistanceKm:    step.DistanceMeters / 1000,
			TimeSeconds:   int(math.Round(step.DurationSeconds)),
			StartPoint:    points[i],
			EndPoint:      points[i+1],
		}

		if seg.DistanceKm > 0 && seg.TimeSeconds > 0 {
			speed := seg.DistanceKm / (float64(seg.TimeSeconds) / 3600)
			if speed < maxPlausibleSpeedKmh {
				seg.MaxSpeedKmh = &speed
			}
		}

		seg.Instruction = Instruction(b.locale, seg.StreetName, seg.RoadType, step.Maneuver.Modifier, seg.DistanceKm)
		segments = append(segments, seg)
	}

	return segments, nil
}

// collectBoundaries derives the N+1 decision points for N steps: each step's
// maneuver location plus the final point of the decoded path.
func (b *SegmentBuilder) collectBoundaries(
	steps []ports.EngineStep,
	legStart map[int]int,
	waypoints []ports.EngineWaypoint,
	path []domain.Coordinates,
) []boundary {
	bounds := make([]boundary, 0, len(steps)+1)

	prev := domain.Coordinates{}
	if len(path) > 0 {
		prev = path[0]
	}
	for i, step := range steps {
		coord := prev
		if len(step.Maneuver.Location) == 2 {
			coord = domain.Coordinates{Lat: step.Maneuver.Location[1], Lon: step.Maneuver.Location[0]}
		}
		prev = coord

		bd := boundary{coord: coord}
		if wi, ok := legStart[i]; ok && wi < len(waypoints) {
			bd.hintNodeID = waypoints[wi].NodeID
			bd.hintName = waypoints[wi].Name
		}
		bounds = append(bounds, bd)
	}

	last := boundary{coord: prev}
	if len(path) > 0 {
		last.coord = path[len(path)-1]
	}
	if len(waypoints) > 0 {
		final := waypoints[len(waypoints)-1]
		last.hintNodeID = final.NodeID
		last.hintName = final.Name
	}
	bounds = append(bounds, last)

	return bounds
}

// resolveBoundaries fans out node resolution with a bounded worker count and
// reassembles results in original order.
func (b *SegmentBuilder) resolveBoundaries(ctx context.Context, bounds []boundary) []domain.RoutePoint {
	points := make([]domain.RoutePoint, len(bounds))

	sem := make(chan struct{}, b.concurrency)
	var wg sync.WaitGroup

	for i, bd := range bounds {
		wg.Add(1)
		go func(i int, bd boundary) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			points[i] = b.resolver.Resolve(ctx, bd.coord, bd.hintNodeID, bd.hintName)
		}(i, bd)
	}

	wg.Wait()
	return points
}
