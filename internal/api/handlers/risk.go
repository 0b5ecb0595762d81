package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mcvoramet/SentinelAI/internal/domain/models"
	"github.com/mcvoramet/SentinelAI/internal/domain/services"
	"github.com/mcvoramet/SentinelAI/pkg/logger"
)

// RiskHandler handles risk aggregation endpoints
type RiskHandler struct {
	engine *services.RiskEngine
	logger *logger.Logger
}

// NewRiskHandler creates a new risk handler
func NewRiskHandler(engine *services.RiskEngine, log *logger.Logger) *RiskHandler {
	return &RiskHandler{
		engine: engine,
		logger: log.WithComponent("risk-handler"),
	}
}

// AggregateRequest is the request body for risk aggregation
type AggregateRequest struct {
	ChatRiskTier     string                     `json:"chat_risk_tier"`
	LocationMismatch bool                       `json:"location_mismatch"`
	TrustScore       int                        `json:"trust_score"`
	Classification   *models.ScamClassification `json:"classification,omitempty"`
	KeywordPatterns  []string                   `json:"keyword_patterns,omitempty"`
}

// Aggregate handles POST /api/v1/risk/aggregate - folds signal channels
// into one assessment
func (h *RiskHandler) Aggregate(w http.ResponseWriter, r *http.Request) {
	var req AggregateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tier, err := models.ParseRiskLevel(req.ChatRiskTier)
	if err != nil {
		http.Error(w, "Invalid chat risk tier", http.StatusBadRequest)
		return
	}

	assessment, err := h.engine.Aggregate(services.AggregateInput{
		ChatRiskTier:     tier,
		LocationMismatch: req.LocationMismatch,
		TrustScore:       req.TrustScore,
		Classification:   req.Classification,
		KeywordPatterns:  req.KeywordPatterns,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(assessment)
}
