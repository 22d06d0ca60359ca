package services

import (
	"context"
	"fmt"

	"itinerary-service/internal/domain"
	"itinerary-service/internal/geometry"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
)

// DefaultWaypointToleranceMeters is the distance within which a resolved
// boundary point is considered the same place as a requested waypoint.
const DefaultWaypointToleranceMeters = 10.0

// BuildRequest carries the user's side of an itinerary build.
// Waypoints are the requested points in request order; the first is the
// origin and the last the destination.
type BuildRequest struct {
	Name      string
	UserID    string
	Waypoints []domain.RoutePoint
}

// Assembler orchestrates the route assembly pipeline: it validates the
// engine response, decodes the path geometry, builds segments, merges the
// requested waypoints, and produces a complete not-yet-persisted Itinerary.
type Assembler struct {
	builder         *SegmentBuilder
	toleranceMeters float64
}

func NewAssembler(builder *SegmentBuilder, toleranceMeters float64) *Assembler {
	if toleranceMeters <= 0 {
		toleranceMeters = DefaultWaypointToleranceMeters
	}
	return &Assembler{builder: builder, toleranceMeters: toleranceMeters}
}

// Assemble turns a raw engine response into an Itinerary with a nil ID.
//
// Aggregate totals are computed strictly as sums over the produced segments,
// never from the engine's route-level totals, so segment-level and
// itinerary-level metrics cannot disagree.
func (a *Assembler) Assemble(
	ctx context.Context,
	resp *ports.RouteResponse,
	req BuildRequest,
) (_ *domain.Itinerary, err error) {
	defer obs.Time(ctx, "assembler.Assemble")(&err)

	if resp == nil {
		return nil, fmt.Errorf("assemble itinerary: nil engine response: %w", domain.ErrUpstreamRouteFailure)
	}
	if resp.Code != ports.EngineCodeOK {
		return nil, fmt.Errorf("assemble itinerary: engine code %q: %w", resp.Code, domain.ErrUpstreamRouteFailure)
	}
	if len(resp.Routes) == 0 {
		return nil, fmt.Errorf("assemble itinerary: no routes: %w", domain.ErrEmptyRoute)
	}
	route := resp.Routes[0]

	path, err := geometry.Decode(route.Geometry)
	if err != nil {
		return nil, fmt.Errorf("assemble itinerary: %w", err)
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("assemble itinerary: geometry decodes to no points: %w", domain.ErrMalformedGeometry)
	}

	segments, err := a.builder.Build(ctx, route, resp.Waypoints, path)
	if err != nil {
		return nil, fmt.Errorf("assemble itinerary: %w", err)
	}

	a.mergeRequestedWaypoints(segments, req.Waypoints)

	it := &domain.Itinerary{
		Name:            req.Name,
		UserID:          req.UserID,
		Waypoints:       req.Waypoints,
		GeometryEncoded: route.Geometry, // stored as-is, never re-encoded
		Segments:        segments,
	}
	it.RecomputeTotals()

	it.OriginLocation = segments[0].StartPoint.Name
	it.DestinationLocation = segments[len(segments)-1].EndPoint.Name

	if err := it.ValidateSegments(); err != nil {
		return nil, fmt.Errorf("assemble itinerary: %w", err)
	}

	return it, nil
}

// mergeRequestedWaypoints prefers user-supplied names over resolver
// fallbacks for boundary points within the distance tolerance of a
// requested waypoint. Both copies of a shared boundary (segment n end,
// segment n+1 start) are updated to preserve continuity.
func (a *Assembler) mergeRequestedWaypoints(segments []domain.RouteSegment, requested []domain.RoutePoint) {
	if len(segments) == 0 || len(requested) == 0 {
		return
	}

	n := len(segments)
	apply := func(i int, update func(p *domain.RoutePoint)) {
		if i < n {
			update(&segments[i].StartPoint)
		}
		if i > 0 {
			update(&segments[i-1].EndPoint)
		}
	}

	for i := 0; i <= n; i++ {
		var pos domain.Coordinates
		if i < n {
			pos = segments[i].StartPoint.Coordinates()
		} else {
			pos = segments[n-1].EndPoint.Coordinates()
		}

		for _, want := range requested {
			if domain.HaversineMeters(pos, want.Coordinates()) > a.toleranceMeters {
				continue
			}
			name := want.Name
			apply(i, func(p *domain.RoutePoint) {
				if name != "" {
					p.Name = name
				}
				if p.Role == domain.RoleNone {
					p.Role = domain.RoleWaypoint
				}
			})
			break
		}
	}
}
