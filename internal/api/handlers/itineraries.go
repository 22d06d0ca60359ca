package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"itinerary-service/internal/api/dto"
	"itinerary-service/internal/domain"
	"itinerary-service/internal/ports"
	"itinerary-service/internal/services"
)

type ItineraryHandler struct {
	Engine    ports.RoutingEngine
	Assembler *services.Assembler
	Repo      ports.ItineraryRepository
	Validate  *validator.Validate
}

// Build computes a route through the requested waypoints, assembles the
// itinerary, and persists it.
func (h *ItineraryHandler) Build(w http.ResponseWriter, r *http.Request) {
	var req dto.BuildItineraryRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	coords := make([]domain.Coordinates, 0, len(req.Waypoints))
	requested := make([]domain.RoutePoint, 0, len(req.Waypoints))
	for i, wp := range req.Waypoints {
		coords = append(coords, domain.Coordinates{Lat: wp.Lat, Lon: wp.Lon})

		role := domain.RoleWaypoint
		switch i {
		case 0:
			role = domain.RoleStart
		case len(req.Waypoints) - 1:
			role = domain.RoleEnd
		}
		requested = append(requested, domain.RoutePoint{Lat: wp.Lat, Lon: wp.Lon, Name: wp.Name, Role: role})
	}

	resp, err := h.Engine.FetchRoute(r.Context(), coords)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	it, err := h.Assembler.Assemble(r.Context(), resp, services.BuildRequest{
		Name:      req.Name,
		UserID:    req.UserID,
		Waypoints: requested,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	saved, err := h.Repo.Save(r.Context(), it)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toItineraryResponse(saved, true))
}

// Get returns one itinerary in full, segments included.
func (h *ItineraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid itinerary id")
		return
	}

	it, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toItineraryResponse(it, true))
}

// List returns itinerary summaries for a user.
func (h *ItineraryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, r, http.StatusBadRequest, "user_id is required")
		return
	}

	its, err := h.Repo.ListByUser(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListItinerariesResponse{Itineraries: make([]dto.ItineraryResponse, 0, len(its))}
	for _, it := range its {
		res.Itineraries = append(res.Itineraries, toItineraryResponse(it, false))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Delete removes an itinerary.
func (h *ItineraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid itinerary id")
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toItineraryResponse(it *domain.Itinerary, withSegments bool) dto.ItineraryResponse {
	res := dto.ItineraryResponse{
		Name:                it.Name,
		UserID:              it.UserID,
		OriginLocation:      it.OriginLocation,
		DestinationLocation: it.DestinationLocation,
		Waypoints:           toPointResponses(it.Waypoints),
		GeometryEncoded:     it.GeometryEncoded,
		DistanceMeters:      it.DistanceMeters,
		DurationSeconds:     it.DurationSeconds,
		CreatedAt:           it.CreatedAt,
		UpdatedAt:           it.UpdatedAt,
	}
	if it.ID != nil {
		res.ID = it.ID.String()
	}

	if withSegments {
		res.Segments = make([]dto.RouteSegmentResponse, 0, len(it.Segments))
		for _, s := range it.Segments {
			res.Segments = append(res.Segments, dto.RouteSegmentResponse{
				SegmentNumber: s.SegmentNumber,
				EdgeID:        s.EdgeID,
				StreetName:    s.StreetName,
				RoadType:      string(s.RoadType),
				DistanceKm:    s.DistanceKm,
				TimeSeconds:   s.TimeSeconds,
				MaxSpeedKmh:   s.MaxSpeedKmh,
				StartPoint:    toPointResponse(s.StartPoint),
				EndPoint:      toPointResponse(s.EndPoint),
				Instruction:   s.Instruction,
			})
		}
	}

	return res
}

func toPointResponses(points []domain.RoutePoint) []dto.RoutePointResponse {
	out := make([]dto.RoutePointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, toPointResponse(p))
	}
	return out
}

func toPointResponse(p domain.RoutePoint) dto.RoutePointResponse {
	return dto.RoutePointResponse{
		NodeID: p.NodeID,
		Lat:    p.Lat,
		Lon:    p.Lon,
		Name:   p.Name,
		Role:   string(p.Role),
	}
}
