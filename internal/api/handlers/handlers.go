package handlers

import (
	"github.com/mcvoramet/SentinelAI/internal/config"
	"github.com/mcvoramet/SentinelAI/internal/domain/services"
	"github.com/mcvoramet/SentinelAI/internal/domain/services/ai"
	"github.com/mcvoramet/SentinelAI/internal/infrastructure/cache"
	"github.com/mcvoramet/SentinelAI/internal/infrastructure/store"
	"github.com/mcvoramet/SentinelAI/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health     *HealthHandler
	Scan       *ScanHandler
	Risk       *RiskHandler
	Detections *DetectionsHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Config   config.Config
	Catalog  *ai.PatternCatalog
	Scorer   *ai.KeywordScorer
	Engine   *services.RiskEngine
	Pipeline *services.DetectionPipeline
	Store    *store.DetectionStore
	Cache    *cache.RedisCache
	Logger   *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(deps.Config.App.Version, deps.Cache, deps.Logger),
		Scan:       NewScanHandler(deps.Catalog, deps.Scorer, deps.Pipeline, deps.Logger),
		Risk:       NewRiskHandler(deps.Engine, deps.Logger),
		Detections: NewDetectionsHandler(deps.Store, deps.Logger),
	}
}
