package domain

// PointRole marks the position of a point within an itinerary.
// Interior segment boundaries that do not correspond to a requested
// waypoint carry RoleNone.
type PointRole string

const (
	RoleNone     PointRole = ""
	RoleStart    PointRole = "start"
	RoleEnd      PointRole = "end"
	RoleWaypoint PointRole = "waypoint"
)

// RoutePoint is a geographic point in an itinerary.
// NodeID is nil when the point could not be resolved to a known node in
// the external road/POI graph; resolution failures degrade the point to a
// coordinate-only label, they never abort itinerary construction.
type RoutePoint struct {
	NodeID *int64    `json:"node_id,omitempty"`
	Lat    float64   `json:"lat"`
	Lon    float64   `json:"lon"`
	Name   string    `json:"name,omitempty"`
	Role   PointRole `json:"role,omitempty"`
}

// Coordinates returns the point's position as a Coordinates value.
func (p RoutePoint) Coordinates() Coordinates {
	return Coordinates{Lat: p.Lat, Lon: p.Lon}
}

// SamePlace reports whether two points refer to the same location.
// Node identity and display name are deliberately ignored.
func (p RoutePoint) SamePlace(other RoutePoint) bool {
	return p.Lat == other.Lat && p.Lon == other.Lon
}
