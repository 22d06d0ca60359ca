package ports

import (
	"context"

	"itinerary-service/internal/domain"
)

// EngineCodeOK is the routing engine's success sentinel. Any other code
// fails the build with domain.ErrUpstreamRouteFailure.
const EngineCodeOK = "Ok"

// EngineManeuver is the engine's maneuver metadata for a step. Location is
// [lon, lat]; Modifier is empty when the engine supplies no turn context.
type EngineManeuver struct {
	Location []float64 `json:"location"`
	Type     string    `json:"type,omitempty"`
	Modifier string    `json:"modifier,omitempty"`
}

// EngineStep is the engine's finest-grained routing unit within a leg.
// Distances are meters, durations seconds, as emitted by the engine.
type EngineStep struct {
	DistanceMeters  float64        `json:"distance"`
	DurationSeconds float64        `json:"duration"`
	Name            string         `json:"name,omitempty"`
	RoadClass       string         `json:"road_class,omitempty"`
	EdgeID          *int64         `json:"edge_id,omitempty"`
	Maneuver        EngineManeuver `json:"maneuver"`
}

// EngineLeg is the portion of a route between two consecutive requested
// waypoints.
type EngineLeg struct {
	DistanceMeters  float64      `json:"distance"`
	DurationSeconds float64      `json:"duration"`
	Steps           []EngineStep `json:"steps"`
}

// EngineRoute is one computed route alternative. Geometry is the compact
// polyline encoding of the full path shape.
type EngineRoute struct {
	Geometry        string      `json:"geometry"`
	DistanceMeters  float64     `json:"distance"`
	DurationSeconds float64     `json:"duration"`
	Legs            []EngineLeg `json:"legs"`
}

// EngineWaypoint is the engine's snapped match for a requested waypoint.
// NodeID is the engine's own waypoint-matching metadata and, when present,
// is trusted over nearest-node lookup.
type EngineWaypoint struct {
	Location []float64 `json:"location"`
	Name     string    `json:"name,omitempty"`
	Hint     string    `json:"hint,omitempty"`
	NodeID   *int64    `json:"node_id,omitempty"`
}

// RouteResponse is the engine's documented response shape.
type RouteResponse struct {
	Code      string           `json:"code"`
	Message   string           `json:"message,omitempty"`
	Routes    []EngineRoute    `json:"routes"`
	Waypoints []EngineWaypoint `json:"waypoints"`
}

// RoutingEngine requests an already-computed route for an ordered waypoint
// sequence. The engine is a black box; implementations own transport,
// retries, and deadline mapping.
type RoutingEngine interface {
	FetchRoute(ctx context.Context, waypoints []domain.Coordinates) (*RouteResponse, error)
}
