// Package graph implements the NodeLookup port against the external
// road/POI graph service, with an optional Redis read-through cache.
package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"itinerary-service/internal/ports"
)

// HTTPNodeLookup resolves coordinates against the graph service's
// nearest-node endpoint.
//
// No retry loop: a failed lookup degrades to the resolver's coordinate-only
// fallback, so retrying here would only add latency to every boundary point.
type HTTPNodeLookup struct {
	session *http.Client
	baseURL string
	apiKey  string
}

func NewHTTPNodeLookup(baseURL, apiKey string, timeout time.Duration) (*HTTPNodeLookup, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("node lookup base URL is empty")
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &HTTPNodeLookup{
		session: &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}, nil
}

type nearestResponse struct {
	NodeID *int64 `json:"node_id"`
	Name   string `json:"name"`
}

// ResolveNearest returns the closest known graph node within radiusMeters,
// or nil when the graph has no node there.
func (l *HTTPNodeLookup) ResolveNearest(
	ctx context.Context,
	lat, lon, radiusMeters float64,
) (*ports.NodeMatch, error) {
	endpoint := l.baseURL + "/nearest"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("resolve nearest: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if l.apiKey != "" {
		req.Header.Set("Authorization", l.apiKey)
	}

	q := req.URL.Query()
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("radius", strconv.FormatFloat(radiusMeters, 'f', -1, 64))
	req.URL.RawQuery = q.Encode()

	resp, err := l.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resolve nearest: %w", err)
	}
	defer resp.Body.Close()

	// The graph service answers 404 when no node lies within the radius;
	// that is a miss, not a failure.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("resolve nearest: unexpected status %d", resp.StatusCode)
	}

	var decoded nearestResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("resolve nearest: decode response: %w", err)
	}

	if decoded.NodeID == nil {
		return nil, nil
	}

	return &ports.NodeMatch{NodeID: *decoded.NodeID, Name: decoded.Name}, nil
}
