package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mcvoramet/SentinelAI/internal/api/handlers"
	apimiddleware "github.com/mcvoramet/SentinelAI/internal/api/middleware"
	"github.com/mcvoramet/SentinelAI/internal/config"
	"github.com/mcvoramet/SentinelAI/internal/infrastructure/cache"
	"github.com/mcvoramet/SentinelAI/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewRouter creates a new Router instance
func NewRouter(cfg config.Config, h *handlers.Handlers, c *cache.RedisCache, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		cache:    c,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Rate limiting needs Redis
	if r.config.RateLimit.Enabled && r.cache != nil {
		router.Use(apimiddleware.RateLimiter(r.cache, r.config.RateLimit))
	}

	// Health check
	router.Get("/health", r.handlers.Health.Check)
	router.Get("/ready", r.handlers.Health.Ready)

	router.Route("/api/v1", func(api chi.Router) {
		// Content scanning endpoints
		api.Route("/scan", func(scan chi.Router) {
			scan.Post("/score", r.handlers.Scan.Score)
			scan.Post("/snippets", r.handlers.Scan.Snippets)
			scan.Post("/analyze", r.handlers.Scan.Analyze)
		})

		// Risk aggregation
		api.Post("/risk/aggregate", r.handlers.Risk.Aggregate)

		// Detection history
		api.Route("/detections", func(det chi.Router) {
			det.Get("/", r.handlers.Detections.Recent)
			det.Get("/latest", r.handlers.Detections.Latest)
			det.Delete("/latest", r.handlers.Detections.ClearLatest)
		})

		// Pattern catalog for client-side local detection
		api.Get("/patterns", r.handlers.Scan.GetPatterns)
	})

	return router
}
