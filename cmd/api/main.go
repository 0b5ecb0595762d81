package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcvoramet/SentinelAI/internal/api"
	"github.com/mcvoramet/SentinelAI/internal/api/handlers"
	"github.com/mcvoramet/SentinelAI/internal/config"
	"github.com/mcvoramet/SentinelAI/internal/domain/services"
	"github.com/mcvoramet/SentinelAI/internal/domain/services/ai"
	"github.com/mcvoramet/SentinelAI/internal/infrastructure/cache"
	"github.com/mcvoramet/SentinelAI/internal/infrastructure/store"
	"github.com/mcvoramet/SentinelAI/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting SentinelAI")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to Redis when enabled; the engine runs without it
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
		} else {
			defer redisCache.Close()
		}
	}

	// Load the scam pattern catalog
	catalog, err := ai.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load pattern catalog")
	}
	log.Info().Int("patterns", catalog.Len()).Msg("pattern catalog loaded")

	// Initialize services
	scorer := ai.NewKeywordScorer(catalog, log)
	engine := services.NewRiskEngine(log)

	var classifier services.Classifier
	if cfg.AI.Enabled {
		var classificationCache ai.ClassificationCache
		if redisCache != nil {
			classificationCache = redisCache
		}
		classifier = ai.NewChatClassifier(cfg.AI, classificationCache, log)
		log.Info().Str("provider", cfg.AI.Provider).Msg("chat classifier initialized")
	} else {
		log.Info().Msg("chat classifier disabled, running keyword-only")
	}

	detectionStore := store.NewDetectionStore()

	pipeline := services.NewDetectionPipeline(cfg.Detection, scorer, engine, classifier, detectionStore, nil, log)
	go pipeline.Run(ctx)

	// Initialize handlers
	deps := handlers.Dependencies{
		Config:   *cfg,
		Catalog:  catalog,
		Scorer:   scorer,
		Engine:   engine,
		Pipeline: pipeline,
		Store:    detectionStore,
		Cache:    redisCache,
		Logger:   log,
	}
	h := handlers.NewHandlers(deps)

	// Create router
	router := api.NewRouter(*cfg, h, redisCache, log)
	httpHandler := router.Setup()

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	// Cancel context to stop the detection worker
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}
