package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema for itineraries and their segments.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createItinerariesQuery := `
	CREATE TABLE IF NOT EXISTS itineraries (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		user_id TEXT NOT NULL,
		origin_location TEXT NOT NULL,
		destination_location TEXT NOT NULL,
		waypoints JSONB NOT NULL DEFAULT '[]'::jsonb,
		geometry_encoded TEXT NOT NULL,
		distance_meters DOUBLE PRECISION NOT NULL,
		duration_seconds INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	`

	createSegmentsQuery := `
	CREATE TABLE IF NOT EXISTS itinerary_segments (
		itinerary_id UUID NOT NULL REFERENCES itineraries(id) ON DELETE CASCADE,
		segment_number INTEGER NOT NULL,
		edge_id BIGINT,
		street_name TEXT NOT NULL DEFAULT '',
		road_type TEXT NOT NULL,
		distance_km DOUBLE PRECISION NOT NULL,
		time_seconds INTEGER NOT NULL,
		max_speed_kmh DOUBLE PRECISION,
		start_point JSONB NOT NULL,
		end_point JSONB NOT NULL,
		instruction TEXT NOT NULL,
		PRIMARY KEY (itinerary_id, segment_number)
	);
	`

	createUserIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_itineraries_user_id
	ON itineraries (user_id, updated_at DESC);
	`

	for _, q := range []string{createItinerariesQuery, createSegmentsQuery, createUserIndexQuery} {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("init schema: exec: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit: %w", err)
	}

	return nil
}
