// Package geometry implements the compact polyline encoding used by the
// routing engine for path shapes: coordinates scaled by 1e5 and delta-encoded
// as zig-zag signed varints in 5-bit chunks offset by 63.
//
// The precision is fixed at 5 decimal digits to match the engine's output;
// an encoding at a different precision decodes to out-of-range coordinates
// and is rejected as malformed rather than silently accepted.
package geometry

import (
	"fmt"
	"math"
	"strings"

	"itinerary-service/internal/domain"
)

const (
	scale = 1e5

	chunkBits         = 5
	chunkMask         = 0x1f
	chunkContinuation = 0x20
	chunkOffset       = 63
)

// Decode converts an encoded polyline into an ordered coordinate sequence.
// Fails with domain.ErrMalformedGeometry on truncated input, unterminated
// varint chunks, or deltas that leave the valid coordinate ranges.
func Decode(encoded string) ([]domain.Coordinates, error) {
	points := make([]domain.Coordinates, 0, len(encoded)/4)

	var lat, lon int64
	i := 0
	for i < len(encoded) {
		dLat, next, err := decodeValue(encoded, i)
		if err != nil {
			return nil, err
		}
		dLon, next, err := decodeValue(encoded, next)
		if err != nil {
			return nil, err
		}
		i = next

		lat += dLat
		lon += dLon

		p := domain.Coordinates{
			Lat: float64(lat) / scale,
			Lon: float64(lon) / scale,
		}
		if !p.Valid() {
			return nil, fmt.Errorf("%w: coordinate out of range at point %d (%.5f, %.5f)",
				domain.ErrMalformedGeometry, len(points), p.Lat, p.Lon)
		}
		points = append(points, p)
	}

	return points, nil
}

// Encode converts an ordered coordinate sequence into the compact polyline
// form. Decode(Encode(p)) reproduces p within the 1e-5 degree precision of
// the encoding.
func Encode(points []domain.Coordinates) string {
	var b strings.Builder

	var prevLat, prevLon int64
	for _, p := range points {
		lat := int64(math.Round(p.Lat * scale))
		lon := int64(math.Round(p.Lon * scale))

		encodeValue(&b, lat-prevLat)
		encodeValue(&b, lon-prevLon)

		prevLat, prevLon = lat, lon
	}

	return b.String()
}

// decodeValue reads one zig-zag varint starting at index i and returns the
// signed delta along with the index of the next unread byte.
func decodeValue(encoded string, i int) (int64, int, error) {
	var result int64
	shift := uint(0)

	for {
		if i >= len(encoded) {
			return 0, 0, fmt.Errorf("%w: truncated at byte %d", domain.ErrMalformedGeometry, i)
		}

		b := int64(encoded[i]) - chunkOffset
		if b < 0 {
			return 0, 0, fmt.Errorf("%w: invalid byte %q at offset %d", domain.ErrMalformedGeometry, encoded[i], i)
		}
		i++

		result |= (b & chunkMask) << shift
		shift += chunkBits

		if b < chunkContinuation {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), i, nil
	}
	return result >> 1, i, nil
}

func encodeValue(b *strings.Builder, delta int64) {
	v := delta << 1
	if delta < 0 {
		v = ^v
	}
	for v >= chunkContinuation {
		b.WriteByte(byte(v&chunkMask|chunkContinuation) + chunkOffset)
		v >>= chunkBits
	}
	b.WriteByte(byte(v) + chunkOffset)
}
