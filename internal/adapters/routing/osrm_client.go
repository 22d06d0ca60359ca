// Package routing implements the RoutingEngine port against an OSRM-shaped
// HTTP service.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
)

// OSRMClient fetches computed routes from the external routing engine.
//
// It does not interpret route-level success or failure: the response code is
// returned verbatim for the assembler to validate. Transport-level concerns
// (retry, backoff, deadline mapping) live here.
//
// The client is safe for concurrent use.
type OSRMClient struct {
	session *http.Client
	baseURL string
	profile string
	apiKey  string
}

func NewOSRMClient(baseURL, profile, apiKey string, timeout time.Duration) (*OSRMClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("routing engine base URL is empty")
	}
	if profile == "" {
		profile = "driving"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &OSRMClient{
		session: &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: profile,
		apiKey:  apiKey,
	}, nil
}

// FetchRoute requests a single route through the given waypoints in order,
// with full path geometry and per-step detail.
//
// A deadline overrun (context or client timeout) maps to
// domain.ErrUpstreamTimeout so callers can distinguish a retryable timeout
// from a failed route computation.
func (c *OSRMClient) FetchRoute(
	ctx context.Context,
	waypoints []domain.Coordinates,
) (_ *ports.RouteResponse, err error) {
	defer obs.Time(ctx, "routing.FetchRoute")(&err)

	if len(waypoints) < 2 {
		return nil, errors.New("fetch route: at least two waypoints are required")
	}
	for i, w := range waypoints {
		if !w.Valid() {
			return nil, fmt.Errorf("fetch route: waypoint %d out of range (%.5f, %.5f)", i, w.Lat, w.Lon)
		}
	}

	endpoint := fmt.Sprintf("%s/route/v1/%s/%s", c.baseURL, c.profile, coordinatePath(waypoints))

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("overview", "full")
		q.Set("steps", "true")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("fetch route: %w", domain.ErrUpstreamTimeout)
		}
		return nil, fmt.Errorf("fetch route: %w", err)
	}
	defer resp.Body.Close()

	var out ports.RouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("fetch route: decode engine response: %w", err)
	}

	return &out, nil
}

// coordinatePath renders waypoints as the engine's lon,lat;lon,lat path form.
func coordinatePath(waypoints []domain.Coordinates) string {
	parts := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		parts = append(parts,
			strconv.FormatFloat(w.Lon, 'f', -1, 64)+","+strconv.FormatFloat(w.Lat, 'f', -1, 64))
	}
	return strings.Join(parts, ";")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
