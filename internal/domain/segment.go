package domain

import "strings"

// RoadType is the fixed road classification vocabulary. Engine road classes
// outside the vocabulary normalize to RoadUnknown.
type RoadType string

const (
	RoadMotorway    RoadType = "motorway"
	RoadTrunk       RoadType = "trunk"
	RoadPrimary     RoadType = "primary"
	RoadSecondary   RoadType = "secondary"
	RoadTertiary    RoadType = "tertiary"
	RoadResidential RoadType = "residential"
	RoadService     RoadType = "service"
	RoadUnknown     RoadType = "unknown"
)

// roadClassAliases maps the engine's free-form road classifications onto the
// fixed vocabulary. Link classes collapse to the road they join.
var roadClassAliases = map[string]RoadType{
	"motorway":       RoadMotorway,
	"motorway_link":  RoadMotorway,
	"trunk":          RoadTrunk,
	"trunk_link":     RoadTrunk,
	"primary":        RoadPrimary,
	"primary_link":   RoadPrimary,
	"secondary":      RoadSecondary,
	"secondary_link": RoadSecondary,
	"tertiary":       RoadTertiary,
	"tertiary_link":  RoadTertiary,
	"residential":    RoadResidential,
	"living_street":  RoadResidential,
	"unclassified":   RoadResidential,
	"service":        RoadService,
	"track":          RoadService,
}

// NormalizeRoadType maps an engine road classification to the fixed vocabulary.
func NormalizeRoadType(class string) RoadType {
	if t, ok := roadClassAliases[strings.ToLower(strings.TrimSpace(class))]; ok {
		return t
	}
	return RoadUnknown
}

// RouteSegment is one contiguous piece of a path between two decision points.
// SegmentNumber is 1-based, strictly increasing with no gaps, and is the sole
// ordering key. EndPoint of segment n is reused verbatim as StartPoint of
// segment n+1.
type RouteSegment struct {
	SegmentNumber int        `json:"segment_number"`
	EdgeID        *int64     `json:"edge_id,omitempty"`
	StreetName    string     `json:"street_name,omitempty"`
	RoadType      RoadType   `json:"road_type"`
	DistanceKm    float64    `json:"distance_km"`
	TimeSeconds   int        `json:"time_seconds"`
	MaxSpeedKmh   *float64   `json:"max_speed_kmh,omitempty"`
	StartPoint    RoutePoint `json:"start_point"`
	EndPoint      RoutePoint `json:"end_point"`
	Instruction   string     `json:"instruction"`
}
