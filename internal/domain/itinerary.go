package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Itinerary is the persisted aggregate produced by the assembly pipeline.
//
// ID is nil for a not-yet-persisted instance, which forces insert rather
// than update semantics in the repository. CreatedAt is set once at first
// persist and never mutated; UpdatedAt is refreshed on every persist.
//
// DistanceMeters and DurationSeconds are always the sums over Segments,
// never the engine's own route-level totals.
type Itinerary struct {
	ID                  *uuid.UUID     `json:"id,omitempty"`
	Name                string         `json:"name"`
	UserID              string         `json:"user_id"`
	OriginLocation      string         `json:"origin_location"`
	DestinationLocation string         `json:"destination_location"`
	Waypoints           []RoutePoint   `json:"waypoints"`
	GeometryEncoded     string         `json:"geometry_encoded"`
	DistanceMeters      float64        `json:"distance_meters"`
	DurationSeconds     int            `json:"duration_seconds"`
	Segments            []RouteSegment `json:"segments"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// RecomputeTotals sets the aggregate metrics from the segment-level metrics.
func (it *Itinerary) RecomputeTotals() {
	var meters float64
	var seconds int
	for _, s := range it.Segments {
		meters += s.DistanceKm * 1000
		seconds += s.TimeSeconds
	}
	it.DistanceMeters = meters
	it.DurationSeconds = seconds
}

// ValidateSegments checks the ordering and continuity invariants:
// segment numbers are exactly 1..N and each segment's end point is the
// next segment's start point.
func (it *Itinerary) ValidateSegments() error {
	for i, s := range it.Segments {
		if s.SegmentNumber != i+1 {
			return fmt.Errorf("segment at index %d has number %d, want %d", i, s.SegmentNumber, i+1)
		}
		if i > 0 && !it.Segments[i-1].EndPoint.SamePlace(s.StartPoint) {
			return fmt.Errorf("segment %d start point does not continue segment %d end point", s.SegmentNumber, i)
		}
	}
	return nil
}
