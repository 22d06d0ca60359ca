package dto

import "time"

// WaypointRequest is one requested point of an itinerary build, in request
// order. The first entry is the origin and the last the destination.
type WaypointRequest struct {
	Lat  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon  float64 `json:"lon" validate:"gte=-180,lte=180"`
	Name string  `json:"name,omitempty"`
}

// BuildItineraryRequest asks the service to compute and persist a new
// itinerary through the given waypoints.
type BuildItineraryRequest struct {
	Name      string            `json:"name" validate:"required"`
	UserID    string            `json:"user_id" validate:"required"`
	Waypoints []WaypointRequest `json:"waypoints" validate:"required,min=2,dive"`
}

type RoutePointResponse struct {
	NodeID *int64  `json:"node_id,omitempty"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Name   string  `json:"name,omitempty"`
	Role   string  `json:"role,omitempty"`
}

type RouteSegmentResponse struct {
	SegmentNumber int                `json:"segment_number"`
	EdgeID        *int64             `json:"edge_id,omitempty"`
	StreetName    string             `json:"street_name,omitempty"`
	RoadType      string             `json:"road_type"`
	DistanceKm    float64            `json:"distance_km"`
	TimeSeconds   int                `json:"time_seconds"`
	MaxSpeedKmh   *float64           `json:"max_speed_kmh,omitempty"`
	StartPoint    RoutePointResponse `json:"start_point"`
	EndPoint      RoutePointResponse `json:"end_point"`
	Instruction   string             `json:"instruction"`
}

type ItineraryResponse struct {
	ID                  string                 `json:"id"`
	Name                string                 `json:"name"`
	UserID              string                 `json:"user_id"`
	OriginLocation      string                 `json:"origin_location"`
	DestinationLocation string                 `json:"destination_location"`
	Waypoints           []RoutePointResponse   `json:"waypoints"`
	GeometryEncoded     string                 `json:"geometry_encoded"`
	DistanceMeters      float64                `json:"distance_meters"`
	DurationSeconds     int                    `json:"duration_seconds"`
	Segments            []RouteSegmentResponse `json:"segments,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

type ListItinerariesResponse struct {
	Itineraries []ItineraryResponse `json:"itineraries"`
}
