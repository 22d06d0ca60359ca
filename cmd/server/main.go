package main

import (
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"itinerary-service/internal/adapters/graph"
	"itinerary-service/internal/adapters/repositories"
	"itinerary-service/internal/adapters/routing"
	"itinerary-service/internal/api"
	"itinerary-service/internal/config"
	"itinerary-service/internal/platform/db"
	"itinerary-service/internal/ports"
	"itinerary-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, OSRM, graph lookup) behind ports
// and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	// Create tables on startup so local runs need no migration step.
	if err := repositories.InitSchema(database); err != nil {
		log.Fatal(err)
	}

	engine, err := routing.NewOSRMClient(cfg.EngineBaseURL, cfg.EngineProfile, cfg.EngineAPIKey, cfg.EngineTimeout)
	if err != nil {
		log.Fatal(err)
	}

	lookup, err := buildNodeLookup(cfg)
	if err != nil {
		log.Fatal(err)
	}

	resolver := services.NewNodeResolver(lookup, cfg.NodeSearchRadiusMeters, cfg.ResolveTimeout)
	builder := services.NewSegmentBuilder(resolver, services.FrenchLocale, services.DefaultResolveConcurrency)
	assembler := services.NewAssembler(builder, services.DefaultWaypointToleranceMeters)

	repo := repositories.NewPostgresItineraryRepository(database)
	router := api.NewRouter(engine, assembler, repo)

	// Timeouts are tuned for route assembly against a remote engine.
	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// buildNodeLookup assembles the optional node-lookup chain. Without a lookup
// URL the resolver falls back to coordinate labels; with Redis configured the
// lookup is wrapped in a read-through cache.
func buildNodeLookup(cfg config.Config) (ports.NodeLookup, error) {
	if cfg.NodeLookupURL == "" {
		log.Println("NODE_LOOKUP_URL not set; points resolve to coordinate labels")
		return nil, nil
	}

	lookup, err := graph.NewHTTPNodeLookup(cfg.NodeLookupURL, cfg.EngineAPIKey, cfg.ResolveTimeout)
	if err != nil {
		return nil, err
	}

	if cfg.RedisAddr == "" {
		return lookup, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return graph.NewRedisNodeCache(lookup, client, 24*time.Hour), nil
}
