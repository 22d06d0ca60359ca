package domain

import "errors"

// ErrMalformedGeometry indicates an encoded path geometry that cannot be
// decoded (truncated chunks, out-of-range deltas). The input is corrupt;
// retrying the build will not help.
var ErrMalformedGeometry = errors.New("malformed geometry")

// ErrEmptyRoute indicates the routing engine returned zero usable legs or
// steps. An itinerary with no segments is invalid and must not be persisted.
var ErrEmptyRoute = errors.New("empty route")

// ErrUpstreamRouteFailure indicates the routing engine reported a non-success
// status. Wrapping errors carry the engine's raw status code for diagnostics;
// the caller may retry with adjusted waypoints.
var ErrUpstreamRouteFailure = errors.New("upstream route failure")

// ErrUpstreamTimeout indicates the routing engine call exceeded its deadline.
// Safe to retry with backoff at the caller's discretion.
var ErrUpstreamTimeout = errors.New("upstream timeout")

// ErrNotFound is returned by repositories when the requested itinerary does
// not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation.
var ErrValidation = errors.New("validation error")
