// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the itinerary service.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// EngineBaseURL is the routing engine endpoint. Required.
	EngineBaseURL string

	// EngineProfile selects the engine's routing profile. Defaults to "driving".
	EngineProfile string

	// EngineAPIKey authorizes engine calls when the deployment requires it.
	EngineAPIKey string

	// EngineTimeout bounds each engine call; overruns fail the build as a
	// retryable upstream timeout. Defaults to 10s.
	EngineTimeout time.Duration

	// NodeLookupURL is the road/POI graph lookup endpoint. Optional: without
	// it every point degrades to the coordinate-only fallback.
	NodeLookupURL string

	// NodeSearchRadiusMeters bounds nearest-node lookups. Defaults to 50.
	NodeSearchRadiusMeters float64

	// ResolveTimeout bounds each node-resolution call; overruns degrade the
	// point instead of failing the build. Defaults to 2s.
	ResolveTimeout time.Duration

	// RedisAddr enables the node-lookup cache when set.
	RedisAddr string
}

// Load reads configuration from environment variables.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:                   getEnv("PORT", "8080"),
		EngineProfile:          getEnv("ENGINE_PROFILE", "driving"),
		EngineAPIKey:           os.Getenv("ENGINE_API_KEY"),
		NodeLookupURL: os.Getenv("NODE_LOOKUP_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
	}

	var err error
	if cfg.NodeSearchRadiusMeters, err = getFloat("NODE_SEARCH_RADIUS_M", 50); err != nil {
		return Config{}, err
	}
	if cfg.EngineTimeout, err = getDuration("ENGINE_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ResolveTimeout, err = getDuration("RESOLVE_TIMEOUT", 2*time.Second); err != nil {
		return Config{}, err
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.EngineBaseURL = os.Getenv("ENGINE_BASE_URL")
	if strings.TrimSpace(cfg.EngineBaseURL) == "" {
		missing = append(missing, "ENGINE_BASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}
