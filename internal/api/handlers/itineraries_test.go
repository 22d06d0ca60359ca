package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary-service/internal/api"
	"itinerary-service/internal/api/dto"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/geometry"
	"itinerary-service/internal/ports"
	"itinerary-service/internal/services"
)

type engineStub struct {
	resp *ports.RouteResponse
	err  error
}

func (e *engineStub) FetchRoute(_ context.Context, _ []domain.Coordinates) (*ports.RouteResponse, error) {
	return e.resp, e.err
}

type repoStub struct {
	save func(it *domain.Itinerary) (*domain.Itinerary, error)
	get  func(id uuid.UUID) (*domain.Itinerary, error)
	list func(userID string) ([]*domain.Itinerary, error)
	del  func(id uuid.UUID) error
}

var (
	_ ports.RoutingEngine       = (*engineStub)(nil)
	_ ports.ItineraryRepository = (*repoStub)(nil)
)

func (r *repoStub) Save(_ context.Context, it *domain.Itinerary) (*domain.Itinerary, error) {
	if r.save == nil {
		return it, nil
	}
	return r.save(it)
}

func (r *repoStub) GetByID(_ context.Context, id uuid.UUID) (*domain.Itinerary, error) {
	if r.get == nil {
		return nil, domain.ErrNotFound
	}
	return r.get(id)
}

func (r *repoStub) ListByUser(_ context.Context, userID string) ([]*domain.Itinerary, error) {
	if r.list == nil {
		return nil, nil
	}
	return r.list(userID)
}

func (r *repoStub) Delete(_ context.Context, id uuid.UUID) error {
	if r.del == nil {
		return nil
	}
	return r.del(id)
}

func newTestServer(t *testing.T, engine ports.RoutingEngine, repo ports.ItineraryRepository) *httptest.Server {
	t.Helper()

	resolver := services.NewNodeResolver(nil, services.DefaultSearchRadiusMeters, services.DefaultResolveTimeout)
	builder := services.NewSegmentBuilder(resolver, services.FrenchLocale, services.DefaultResolveConcurrency)
	assembler := services.NewAssembler(builder, services.DefaultWaypointToleranceMeters)

	srv := httptest.NewServer(api.NewRouter(engine, assembler, repo))
	t.Cleanup(srv.Close)
	return srv
}

func engineResponse(t *testing.T) *ports.RouteResponse {
	t.Helper()

	path := []domain.Coordinates{
		{Lat: 3.848, Lon: 11.5021},
		{Lat: 3.8568, Lon: 11.515},
		{Lat: 3.86, Lon: 11.521},
	}

	return &ports.RouteResponse{
		Code: ports.EngineCodeOK,
		Routes: []ports.EngineRoute{{
			Geometry: geometry.Encode(path),
			Legs: []ports.EngineLeg{{
				DistanceMeters:  7000,
				DurationSeconds: 450,
				Steps: []ports.EngineStep{
					{
						DistanceMeters:  5200,
						DurationSeconds: 300,
						Name:            "Avenue Kennedy",
						RoadClass:       "primary",
						Maneuver:        ports.EngineManeuver{Location: []float64{11.5021, 3.848}, Type: "depart"},
					},
					{
						DistanceMeters:  1800,
						DurationSeconds: 150,
						RoadClass:       "residential",
						Maneuver:        ports.EngineManeuver{Location: []float64{11.515, 3.8568}, Type: "turn", Modifier: "right"},
					},
				},
			}},
		}},
		Waypoints: []ports.EngineWaypoint{
			{Location: []float64{11.5021, 3.848}, Name: "Poste Centrale"},
			{Location: []float64{11.521, 3.86}, Name: "Palais des Congrès"},
		},
	}
}

func buildBody(t *testing.T) *bytes.Reader {
	t.Helper()

	body, err := json.Marshal(dto.BuildItineraryRequest{
		Name:   "Commute",
		UserID: "user-1",
		Waypoints: []dto.WaypointRequest{
			{Lat: 3.848, Lon: 11.5021, Name: "Poste Centrale"},
			{Lat: 3.86, Lon: 11.521, Name: "Palais des Congrès"},
		},
	})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestBuildItineraryCreated(t *testing.T) {
	engine := &engineStub{resp: engineResponse(t)}
	repo := &repoStub{
		save: func(it *domain.Itinerary) (*domain.Itinerary, error) {
			require.Nil(t, it.ID)
			id := uuid.New()
			saved := *it
			saved.ID = &id
			return &saved, nil
		},
	}

	srv := newTestServer(t, engine, repo)

	res, err := http.Post(srv.URL+"/itineraries", "application/json", buildBody(t))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusCreated, res.StatusCode)

	var got dto.ItineraryResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Commute", got.Name)
	assert.Equal(t, "user-1", got.UserID)
	assert.InDelta(t, 7000, got.DistanceMeters, 0.01)
	assert.Equal(t, 450, got.DurationSeconds)
	require.Len(t, got.Segments, 2)
	assert.Equal(t, "Avenue Kennedy", got.Segments[0].StreetName)
	assert.Contains(t, got.Segments[1].Instruction, "1.8 km")
}

func TestBuildItineraryNoRoute(t *testing.T) {
	engine := &engineStub{resp: &ports.RouteResponse{Code: "NoRoute", Message: "Impossible route between points"}}
	srv := newTestServer(t, engine, &repoStub{})

	res, err := http.Post(srv.URL+"/itineraries", "application/json", buildBody(t))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
}

func TestBuildItineraryEngineTimeout(t *testing.T) {
	engine := &engineStub{err: fmt.Errorf("osrm: fetch route: %w", domain.ErrUpstreamTimeout)}
	srv := newTestServer(t, engine, &repoStub{})

	res, err := http.Post(srv.URL+"/itineraries", "application/json", buildBody(t))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusGatewayTimeout, res.StatusCode)
}

func TestBuildItineraryRejectsBadBody(t *testing.T) {
	srv := newTestServer(t, &engineStub{}, &repoStub{})

	cases := []struct {
		name string
		body string
	}{
		{"not json", "{nope"},
		{"unknown field", `{"name":"x","user_id":"u","waypoints":[{"lat":1,"lon":1},{"lat":2,"lon":2}],"extra":true}`},
		{"single waypoint", `{"name":"x","user_id":"u","waypoints":[{"lat":1,"lon":1}]}`},
		{"latitude out of range", `{"name":"x","user_id":"u","waypoints":[{"lat":95,"lon":1},{"lat":2,"lon":2}]}`},
		{"missing user", `{"name":"x","waypoints":[{"lat":1,"lon":1},{"lat":2,"lon":2}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := http.Post(srv.URL+"/itineraries", "application/json", bytes.NewReader([]byte(tc.body)))
			require.NoError(t, err)
			res.Body.Close()

			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		})
	}
}

func TestGetItineraryNotFound(t *testing.T) {
	repo := &repoStub{
		get: func(id uuid.UUID) (*domain.Itinerary, error) {
			return nil, fmt.Errorf("itinerary %s: %w", id, domain.ErrNotFound)
		},
	}
	srv := newTestServer(t, &engineStub{}, repo)

	res, err := http.Get(srv.URL + "/itineraries/" + uuid.NewString())
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestGetItineraryInvalidID(t *testing.T) {
	srv := newTestServer(t, &engineStub{}, &repoStub{})

	res, err := http.Get(srv.URL + "/itineraries/not-a-uuid")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestListItinerariesRequiresUser(t *testing.T) {
	srv := newTestServer(t, &engineStub{}, &repoStub{})

	res, err := http.Get(srv.URL + "/itineraries")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestListItinerariesOmitsSegments(t *testing.T) {
	id := uuid.New()
	repo := &repoStub{
		list: func(userID string) ([]*domain.Itinerary, error) {
			require.Equal(t, "user-1", userID)
			return []*domain.Itinerary{{
				ID:              &id,
				Name:            "Commute",
				UserID:          userID,
				DistanceMeters:  7000,
				DurationSeconds: 450,
			}}, nil
		},
	}
	srv := newTestServer(t, &engineStub{}, repo)

	res, err := http.Get(srv.URL + "/itineraries?user_id=user-1")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var got dto.ListItinerariesResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	require.Len(t, got.Itineraries, 1)
	assert.Equal(t, id.String(), got.Itineraries[0].ID)
	assert.Empty(t, got.Itineraries[0].Segments)
}

func TestDeleteItinerary(t *testing.T) {
	deleted := uuid.Nil
	repo := &repoStub{
		del: func(id uuid.UUID) error {
			deleted = id
			return nil
		},
	}
	srv := newTestServer(t, &engineStub{}, repo)

	id := uuid.New()
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/itineraries/"+id.String(), nil)
	require.NoError(t, err)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, id, deleted)
}
