package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"itinerary-service/internal/api/handlers"
	"itinerary-service/internal/ports"
	"itinerary-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(engine ports.RoutingEngine, assembler *services.Assembler, repo ports.ItineraryRepository) http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)

	itinHandler := &handlers.ItineraryHandler{
		Engine:    engine,
		Assembler: assembler,
		Repo:      repo,
		Validate:  validator.New(),
	}

	r.Get("/health", handlers.Health)

	r.Route("/itineraries", func(r chi.Router) {
		r.Post("/", itinHandler.Build)
		r.Get("/", itinHandler.List)
		r.Get("/{id}", itinHandler.Get)
		r.Delete("/{id}", itinHandler.Delete)
	})

	return r
}
