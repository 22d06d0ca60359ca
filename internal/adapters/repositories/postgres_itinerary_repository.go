// Package repositories implements the ItineraryRepository port on Postgres.
package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/obs"
)

// PostgresItineraryRepository stores itineraries with their segments
// denormalized into a child table, ordered by segment_number.
//
// Insert-vs-update policy: a nil itinerary ID always inserts (the repository
// assigns the ID and CreatedAt); a present ID updates and refreshes
// UpdatedAt only.
type PostgresItineraryRepository struct{ DB *sql.DB }

func NewPostgresItineraryRepository(db *sql.DB) *PostgresItineraryRepository {
	return &PostgresItineraryRepository{DB: db}
}

// Save persists the itinerary and returns it with identity and timestamps
// populated. The input value is not mutated.
func (r *PostgresItineraryRepository) Save(
	ctx context.Context,
	it *domain.Itinerary,
) (_ *domain.Itinerary, err error) {
	defer obs.Time(ctx, "repo.itinerary.Save")(&err)

	if r.DB == nil {
		return nil, errors.New("itinerary repository: DB is nil")
	}
	if it == nil {
		return nil, errors.New("save itinerary: itinerary is nil")
	}

	saved := *it
	now := time.Now().UTC()
	saved.UpdatedAt = now

	waypointsJSON, err := json.Marshal(saved.Waypoints)
	if err != nil {
		return nil, fmt.Errorf("save itinerary: marshal waypoints: %w", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("save itinerary: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if saved.ID == nil {
		id := uuid.New()
		saved.ID = &id
		saved.CreatedAt = now

		insertQuery := `
		INSERT INTO itineraries
			(id, name, user_id, origin_location, destination_location,
			 waypoints, geometry_encoded, distance_meters, duration_seconds,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
		`
		if _, err := tx.ExecContext(ctx, insertQuery,
			*saved.ID, saved.Name, saved.UserID, saved.OriginLocation, saved.DestinationLocation,
			waypointsJSON, saved.GeometryEncoded, saved.DistanceMeters, saved.DurationSeconds,
			saved.CreatedAt, saved.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("save itinerary: insert: %w", err)
		}
	} else {
		updateQuery := `
		UPDATE itineraries
		SET name = $2, user_id = $3, origin_location = $4, destination_location = $5,
			waypoints = $6, geometry_encoded = $7, distance_meters = $8,
			duration_seconds = $9, updated_at = $10
		WHERE id = $1
		RETURNING created_at;
		`
		err := tx.QueryRowContext(ctx, updateQuery,
			*saved.ID, saved.Name, saved.UserID, saved.OriginLocation, saved.DestinationLocation,
			waypointsJSON, saved.GeometryEncoded, saved.DistanceMeters, saved.DurationSeconds,
			saved.UpdatedAt,
		).Scan(&saved.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("save itinerary: id %s: %w", saved.ID, domain.ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("save itinerary: update: %w", err)
		}

		deleteSegmentsQuery := `DELETE FROM itinerary_segments WHERE itinerary_id = $1;`
		if _, err := tx.ExecContext(ctx, deleteSegmentsQuery, *saved.ID); err != nil {
			return nil, fmt.Errorf("save itinerary: clear segments: %w", err)
		}
	}

	if err := insertSegments(ctx, tx, *saved.ID, saved.Segments); err != nil {
		return nil, fmt.Errorf("save itinerary: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("save itinerary: commit: %w", err)
	}

	return &saved, nil
}

func insertSegments(ctx context.Context, tx *sql.Tx, id uuid.UUID, segments []domain.RouteSegment) error {
	if len(segments) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO itinerary_segments
		(itinerary_id, segment_number, edge_id, street_name, road_type,
		 distance_km, time_seconds, max_speed_kmh, start_point, end_point, instruction)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`)
	if err != nil {
		return fmt.Errorf("insert segments: prepare: %w", err)
	}
	defer stmt.Close()

	for _, s := range segments {
		startJSON, err := json.Marshal(s.StartPoint)
		if err != nil {
			return fmt.Errorf("insert segments: marshal start point: %w", err)
		}
		endJSON, err := json.Marshal(s.EndPoint)
		if err != nil {
			return fmt.Errorf("insert segments: marshal end point: %w", err)
		}

		if _, err := stmt.ExecContext(ctx,
			id, s.SegmentNumber, s.EdgeID, s.StreetName, string(s.RoadType),
			s.DistanceKm, s.TimeSeconds, s.MaxSpeedKmh, startJSON, endJSON, s.Instruction,
		); err != nil {
			return fmt.Errorf("insert segments: segment %d: %w", s.SegmentNumber, err)
		}
	}

	return nil
}

// GetByID returns the full itinerary with segments ordered by segment
// number, reproducing the ordering and metrics of the original build.
func (r *PostgresItineraryRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (_ *domain.Itinerary, err error) {
	defer obs.Time(ctx, "repo.itinerary.GetByID")(&err)

	if r.DB == nil {
		return nil, errors.New("itinerary repository: DB is nil")
	}

	query := `
	SELECT id, name, user_id, origin_location, destination_location,
		   waypoints, geometry_encoded, distance_meters, duration_seconds,
		   created_at, updated_at
	FROM itineraries
	WHERE id = $1;
	`

	it, err := scanItinerary(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get itinerary: id %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get itinerary: %w", err)
	}

	segmentsQuery := `
	SELECT segment_number, edge_id, street_name, road_type,
		   distance_km, time_seconds, max_speed_kmh, start_point, end_point, instruction
	FROM itinerary_segments
	WHERE itinerary_id = $1
	ORDER BY segment_number;
	`
	rows, err := r.DB.QueryContext(ctx, segmentsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get itinerary: query segments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.RouteSegment
		var edgeID sql.NullInt64
		var maxSpeed sql.NullFloat64
		var roadType string
		var startJSON, endJSON []byte

		if err := rows.Scan(
			&s.SegmentNumber, &edgeID, &s.StreetName, &roadType,
			&s.DistanceKm, &s.TimeSeconds, &maxSpeed, &startJSON, &endJSON, &s.Instruction,
		); err != nil {
			return nil, fmt.Errorf("get itinerary: scan segment: %w", err)
		}

		if edgeID.Valid {
			s.EdgeID = &edgeID.Int64
		}
		if maxSpeed.Valid {
			s.MaxSpeedKmh = &maxSpeed.Float64
		}
		s.RoadType = domain.RoadType(roadType)

		if err := json.Unmarshal(startJSON, &s.StartPoint); err != nil {
			return nil, fmt.Errorf("get itinerary: unmarshal start point: %w", err)
		}
		if err := json.Unmarshal(endJSON, &s.EndPoint); err != nil {
			return nil, fmt.Errorf("get itinerary: unmarshal end point: %w", err)
		}

		it.Segments = append(it.Segments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get itinerary: segment iteration: %w", err)
	}

	return it, nil
}

// ListByUser returns itinerary summaries (no segments), most recent first.
func (r *PostgresItineraryRepository) ListByUser(
	ctx context.Context,
	userID string,
) (_ []*domain.Itinerary, err error) {
	defer obs.Time(ctx, "repo.itinerary.ListByUser")(&err)

	if r.DB == nil {
		return nil, errors.New("itinerary repository: DB is nil")
	}

	query := `
	SELECT id, name, user_id, origin_location, destination_location,
		   waypoints, geometry_encoded, distance_meters, duration_seconds,
		   created_at, updated_at
	FROM itineraries
	WHERE user_id = $1
	ORDER BY updated_at DESC;
	`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list itineraries: query: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Itinerary, 0, 16)
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, fmt.Errorf("list itineraries: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list itineraries: row iteration: %w", err)
	}

	return out, nil
}

// Delete removes the itinerary; segments cascade.
func (r *PostgresItineraryRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer obs.Time(ctx, "repo.itinerary.Delete")(&err)

	if r.DB == nil {
		return errors.New("itinerary repository: DB is nil")
	}

	res, err := r.DB.ExecContext(ctx, `DELETE FROM itineraries WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete itinerary: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete itinerary: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete itinerary: id %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItinerary(row rowScanner) (*domain.Itinerary, error) {
	var it domain.Itinerary
	var id uuid.UUID
	var waypointsJSON []byte

	if err := row.Scan(
		&id, &it.Name, &it.UserID, &it.OriginLocation, &it.DestinationLocation,
		&waypointsJSON, &it.GeometryEncoded, &it.DistanceMeters, &it.DurationSeconds,
		&it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}

	it.ID = &id
	if err := json.Unmarshal(waypointsJSON, &it.Waypoints); err != nil {
		return nil, fmt.Errorf("unmarshal waypoints: %w", err)
	}

	return &it, nil
}
