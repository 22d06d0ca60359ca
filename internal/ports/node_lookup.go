package ports

import "context"

// NodeMatch is a known node in the external road/POI graph.
type NodeMatch struct {
	NodeID int64  `json:"node_id"`
	Name   string `json:"name,omitempty"`
}

// NodeLookup resolves coordinates against the external road/POI graph.
type NodeLookup interface {
	// ResolveNearest returns the closest known node within radiusMeters of
	// the given position, or nil when no node matches.
	ResolveNearest(ctx context.Context, lat, lon, radiusMeters float64) (*NodeMatch, error)
}
