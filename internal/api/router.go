package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/paintstore/internal/app"
	"github.com/charlesng35/paintstore/internal/handlers"
	"github.com/charlesng35/paintstore/internal/middleware"
	"github.com/charlesng35/paintstore/internal/monitoring"
)

// Dependencies are the services the HTTP API is built on.
type Dependencies struct {
	Recommender handlers.Recommender
	// Monitoring is optional. Without it health probes report disabled and
	// no metrics endpoint is mounted.
	Monitoring *monitoring.Module
}

// NewRouter builds the Gin engine, wires middleware and registers the
// recommender routes.
func NewRouter(cfg *app.Config, deps Dependencies) (*gin.Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if deps.Recommender == nil {
		return nil, fmt.Errorf("recommender must be provided")
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS())

	registerHealthRoutes(r, cfg, deps.Monitoring)

	recommendations, err := handlers.NewRecommendationHandler(
		deps.Recommender,
		cfg.Recommender.DefaultLimit,
		cfg.Recommender.MaxLimit,
	)
	if err != nil {
		return nil, err
	}
	registerRecommendationRoutes(r, recommendations)

	registerMonitoringRoutes(r, handlers.NewMonitoringHandler(deps.Monitoring, cfg))

	// Metrics endpoint
	if cfg.Monitoring.Prometheus.Enabled && deps.Monitoring != nil {
		endpoint := strings.TrimSpace(cfg.Monitoring.Prometheus.Endpoint)
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(deps.Monitoring.Handler()))
	}

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)
	r.NoMethod(middleware.MethodNotAllowedHandler)

	return r, nil
}
